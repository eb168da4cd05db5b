package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/testing/suite"
)

func TestBanRepository(t *testing.T) {
	ctx, st := suite.New(t)

	banRepo := NewBanRepository(st.Storage)

	// Given: user 7 is banned
	require.NoError(t, banRepo.Ban(ctx, 7))

	// When: IsBanned is called
	banned, err := banRepo.IsBanned(ctx, 7)

	// Then: the user is banned and others are not
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = banRepo.IsBanned(ctx, 8)
	require.NoError(t, err)
	assert.False(t, banned)

	// When: the user is unbanned
	require.NoError(t, banRepo.Unban(ctx, 7))

	// Then: the ban is lifted
	banned, err = banRepo.IsBanned(ctx, 7)
	require.NoError(t, err)
	assert.False(t, banned)
}
