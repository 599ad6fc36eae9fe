package repository

import (
	"context"
	"testing"

	"bsebot/domain/entities"
	"bsebot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	t.Run("missing user returns nil", func(t *testing.T) {
		user, err := repo.GetByDiscordID(ctx, 12345)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("create sets starting balance and high score", func(t *testing.T) {
		user, err := repo.Create(ctx, 12345, "alice", 10)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(10), user.Points)
		assert.Equal(t, int64(10), user.HighScore)
		assert.Equal(t, testGuildID, user.GuildID)
		assert.Equal(t, entities.SupporterTypeNeutral, user.SupporterType)
	})

	t.Run("users are guild scoped", func(t *testing.T) {
		otherRepo := NewUserRepositoryScoped(testDB.DB.Pool, testGuildID+1)
		user, err := otherRepo.GetByDiscordID(ctx, 12345)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "bob", 100)
	require.NoError(t, err)

	t.Run("raises high score on gain", func(t *testing.T) {
		require.NoError(t, repo.UpdateBalance(ctx, 1, 250))

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(250), user.Points)
		assert.Equal(t, int64(250), user.HighScore)
	})

	t.Run("keeps high score on loss", func(t *testing.T) {
		require.NoError(t, repo.UpdateBalance(ctx, 1, 50))

		user, err := repo.GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(50), user.Points)
		assert.Equal(t, int64(250), user.HighScore)
	})

	t.Run("unknown user errors", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 999, 10)
		assert.Error(t, err)
	})
}

func TestUserRepository_PendingPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepositoryScoped(testDB.DB.Pool, testGuildID)
	betRepo := NewBetRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 7, "carol", 1000)
	require.NoError(t, err)

	bet := testutil.CreateTestBet(7, "pending points bet")
	require.NoError(t, betRepo.Create(ctx, bet))
	require.NoError(t, betRepo.UpsertStake(ctx, bet.BetID, 7, "1️⃣", 300))

	user, err := userRepo.GetByDiscordID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(300), user.PendingPoints)

	t.Run("resolved bets release pending", func(t *testing.T) {
		require.NoError(t, betRepo.Resolve(ctx, bet.BetID, []string{"1️⃣"}, map[int64]int64{7: 700}, bet.TimeoutAt))

		user, err := userRepo.GetByDiscordID(ctx, 7)
		require.NoError(t, err)
		assert.Zero(t, user.PendingPoints)
	})
}

func TestUserRepository_GetActive(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "active", 100)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "gone", 200)
	require.NoError(t, err)

	require.NoError(t, repo.SetInactive(ctx, 2, true))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].DiscordID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
