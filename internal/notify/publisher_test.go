package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/testing/suite"
)

func TestPublisher_Notify(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := New(st.Storage)

	// Given: a subscriber on chat 42
	sub, err := publisher.Subscribe(ctx, 42)
	require.NoError(t, err)
	defer sub.Close()

	view := entity.View{
		ChatID:    42,
		SessionID: "session",
		Text:      "Turn: X",
		Keyboard: entity.Keyboard{Rows: [][]entity.Button{
			{{Text: "X", Data: "noop"}, {Text: "2", Data: "1"}},
		}},
	}

	// When: a view for chat 42 is published
	require.NoError(t, publisher.Notify(ctx, view))

	// Then: the subscriber receives the same view
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, Channel(42), msg.Channel)

	received, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, view, received)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "chat:-100:events", Channel(-100))
}

func TestPublisher_Stream(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := New(st.Storage)

	streamCtx, cancel := context.WithCancel(ctx)

	// Given: a stream for chat 7
	views, err := publisher.Stream(streamCtx, 7)
	require.NoError(t, err)

	// When: views for chat 7 and chat 8 are published
	require.NoError(t, publisher.Notify(ctx, entity.View{ChatID: 8, Text: "other chat"}))
	require.NoError(t, publisher.Notify(ctx, entity.View{ChatID: 7, Text: "Turn: O"}))

	// Then: only the chat 7 view arrives
	view := <-views
	assert.Equal(t, "Turn: O", view.Text)

	// Then: the stream closes with its context
	cancel()
	for range views {
	}
}
