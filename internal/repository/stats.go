package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	chatsKey = "chats"

	fieldGames = "games"
	fieldWins  = "wins"
	fieldDraws = "draws"
)

var ErrUnknownOutcome = errors.New("outcome is not terminal")

type StatsRepository interface {
	RecordStats(ctx context.Context, chatID int64, outcome entity.Outcome, winner *entity.Participant) error
	RegisterChat(ctx context.Context, chatID int64) error
	GetStats(ctx context.Context, chatID int64, top int) (*entity.ChatStats, error)
	Chats(ctx context.Context) ([]int64, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func statsKey(chatID int64) string {
	return "stats:" + strconv.FormatInt(chatID, 10)
}

func topKey(chatID int64) string {
	return statsKey(chatID) + ":top"
}

// RecordStats - counts a finished game. Counters are updated in one transaction.
func (that *dbStats) RecordStats(ctx context.Context, chatID int64, outcome entity.Outcome, winner *entity.Participant) error {
	if !outcome.IsTerminal() {
		return ErrUnknownOutcome
	}

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKey(chatID), fieldGames, 1)

		if outcome.IsDraw() {
			pipe.HIncrBy(ctx, statsKey(chatID), fieldDraws, 1)
			return nil
		}

		pipe.HIncrBy(ctx, statsKey(chatID), fieldWins, 1)
		if winner != nil {
			pipe.ZIncrBy(ctx, topKey(chatID), 1, winner.DisplayName())
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record stats: %w", err)
	}

	return nil
}

func (that *dbStats) RegisterChat(ctx context.Context, chatID int64) error {
	if err := that.client.SAdd(ctx, chatsKey, chatID).Err(); err != nil {
		return fmt.Errorf("failed to register chat: %w", err)
	}

	return nil
}

// GetStats - returns the chat's counters and its top winners, best first.
func (that *dbStats) GetStats(ctx context.Context, chatID int64, top int) (*entity.ChatStats, error) {
	counters, err := that.client.HGetAll(ctx, statsKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats := &entity.ChatStats{ChatID: chatID}

	for field, target := range map[string]*int64{
		fieldGames: &stats.Games,
		fieldWins:  &stats.Wins,
		fieldDraws: &stats.Draws,
	} {
		raw, ok := counters[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	if top <= 0 {
		return stats, nil
	}

	winners, err := that.client.ZRevRangeWithScores(ctx, topKey(chatID), 0, int64(top-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top players: %w", err)
	}

	stats.TopPlayers = make([]entity.PlayerTally, 0, len(winners))
	for _, winner := range winners {
		name, _ := winner.Member.(string)
		stats.TopPlayers = append(stats.TopPlayers, entity.PlayerTally{Name: name, Wins: int64(winner.Score)})
	}

	return stats, nil
}

// Chats - returns every chat that ever started a game.
func (that *dbStats) Chats(ctx context.Context) ([]int64, error) {
	members, err := that.client.SMembers(ctx, chatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get chats: %w", err)
	}

	chats := make([]int64, 0, len(members))
	for _, member := range members {
		chatID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chat id %q: %w", member, err)
		}
		chats = append(chats, chatID)
	}

	return chats, nil
}
