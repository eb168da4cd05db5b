package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// Channel - returns the Pub/Sub channel carrying a chat's board updates.
func Channel(chatID int64) string {
	return "chat:" + strconv.FormatInt(chatID, 10) + ":events"
}

// Publisher delivers rendered views to whoever listens on the chat's channel.
type Publisher struct {
	client *redis.Client
}

func New(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (that *Publisher) Notify(ctx context.Context, view entity.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	if err = that.client.Publish(ctx, Channel(view.ChatID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish view: %w", err)
	}

	return nil
}

// Subscribe - listens to the chat's channel. The subscription must be closed by the caller.
func (that *Publisher) Subscribe(ctx context.Context, chatID int64) (*redis.PubSub, error) {
	sub := that.client.Subscribe(ctx, Channel(chatID))

	// wait for the confirmation so no message published after return is lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to chat %d: %w", chatID, err)
	}

	return sub, nil
}

// Decode - parses a message received from a chat's channel.
func Decode(msg *redis.Message) (entity.View, error) {
	var view entity.View
	if err := json.Unmarshal([]byte(msg.Payload), &view); err != nil {
		return entity.View{}, fmt.Errorf("failed to unmarshal view: %w", err)
	}

	return view, nil
}

// Stream - forwards the chat's views until ctx is done. The channel is closed afterwards.
func (that *Publisher) Stream(ctx context.Context, chatID int64) (<-chan entity.View, error) {
	sub, err := that.Subscribe(ctx, chatID)
	if err != nil {
		return nil, err
	}

	views := make(chan entity.View)

	go func() {
		defer close(views)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				view, err := Decode(msg)
				if err != nil {
					continue
				}

				select {
				case views <- view:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return views, nil
}
