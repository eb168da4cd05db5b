package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/testing/suite"
)

func TestStatsRepository_RecordStats(t *testing.T) {
	t.Run("Counts wins, draws and the winners tally", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		alice := entity.NewHuman(1, "alice")
		bob := entity.NewHuman(2, "bob")

		// Given: two wins for alice, one for bob and a draw
		require.NoError(t, statsRepo.RecordStats(ctx, 10, entity.OutcomeX, alice))
		require.NoError(t, statsRepo.RecordStats(ctx, 10, entity.OutcomeO, alice))
		require.NoError(t, statsRepo.RecordStats(ctx, 10, entity.OutcomeX, bob))
		require.NoError(t, statsRepo.RecordStats(ctx, 10, entity.OutcomeDraw, nil))

		// When: GetStats is called
		stats, err := statsRepo.GetStats(ctx, 10, 5)

		// Then: counters and the top list match
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.Games)
		assert.Equal(t, int64(3), stats.Wins)
		assert.Equal(t, int64(1), stats.Draws)
		assert.Equal(t, []entity.PlayerTally{{Name: "alice", Wins: 2}, {Name: "bob", Wins: 1}}, stats.TopPlayers)
	})

	t.Run("Draw increments only the draw counter", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// When: a draw is recorded
		require.NoError(t, statsRepo.RecordStats(ctx, 20, entity.OutcomeDraw, nil))

		// Then: games and draws are incremented by one
		stats, err := statsRepo.GetStats(ctx, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Games)
		assert.Equal(t, int64(1), stats.Draws)
		assert.Zero(t, stats.Wins)
		assert.Empty(t, stats.TopPlayers)
	})

	t.Run("Unfinished outcome is rejected", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		err := statsRepo.RecordStats(ctx, 30, entity.OutcomeNone, nil)

		require.ErrorIs(t, err, ErrUnknownOutcome)
	})
}

func TestStatsRepository_GetStats_Empty(t *testing.T) {
	ctx, st := suite.New(t)

	statsRepo := NewStatsRepository(st.Storage)

	// When: a chat without games is read
	stats, err := statsRepo.GetStats(ctx, 404, 3)

	// Then: all counters are zero
	require.NoError(t, err)
	assert.Equal(t, int64(404), stats.ChatID)
	assert.Zero(t, stats.Games)
	assert.Empty(t, stats.TopPlayers)
}

func TestStatsRepository_Chats(t *testing.T) {
	ctx, st := suite.New(t)

	statsRepo := NewStatsRepository(st.Storage)

	// Given: two chats registered, one of them twice
	require.NoError(t, statsRepo.RegisterChat(ctx, 1))
	require.NoError(t, statsRepo.RegisterChat(ctx, -100))
	require.NoError(t, statsRepo.RegisterChat(ctx, 1))

	// When: Chats is called
	chats, err := statsRepo.Chats(ctx)

	// Then: each chat is listed once
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, -100}, chats)
}
