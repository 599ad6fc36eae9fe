package services

import (
	"context"
	"testing"

	"bsebot/config"
	"bsebot/domain/entities"
	"bsebot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserServiceFixture(t *testing.T) (*testhelpers.MockUserRepository, *testhelpers.MockBalanceHistoryRepository, *userService) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	userRepo := new(testhelpers.MockUserRepository)
	historyRepo := new(testhelpers.MockBalanceHistoryRepository)
	svc := NewUserService(userRepo, historyRepo, testhelpers.NoopEventPublisher{}).(*userService)
	return userRepo, historyRepo, svc
}

func TestUserService_GetOrCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user is returned as-is", func(t *testing.T) {
		userRepo, historyRepo, svc := newUserServiceFixture(t)
		existing := &entities.User{DiscordID: 42, Points: 500}
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(existing, nil)

		user, err := svc.GetOrCreateUser(ctx, 42, "alice")
		require.NoError(t, err)
		assert.Same(t, existing, user)
		historyRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("first sight creates with starting balance and ledger entry", func(t *testing.T) {
		userRepo, historyRepo, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(nil, nil)
		created := &entities.User{DiscordID: 42, GuildID: 100, Points: 10, HighScore: 10}
		userRepo.On("Create", ctx, int64(42), "alice", int64(10)).Return(created, nil)
		historyRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
			return h.TransactionType == entities.TransactionTypeInitial &&
				h.BalanceBefore == 0 && h.BalanceAfter == 10
		})).Return(nil)

		user, err := svc.GetOrCreateUser(ctx, 42, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(10), user.Points)

		userRepo.AssertExpectations(t)
		historyRepo.AssertExpectations(t)
	})
}

func TestUserService_ApplyBalanceChange(t *testing.T) {
	ctx := context.Background()

	t.Run("credit raises balance and high score", func(t *testing.T) {
		userRepo, historyRepo, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 100, HighScore: 100}, nil)
		userRepo.On("UpdateBalance", ctx, int64(42), int64(350)).Return(nil)
		historyRepo.On("Record", ctx, mock.Anything).Return(nil)

		user, err := svc.ApplyBalanceChange(ctx, 42, 250, entities.TransactionTypeBetWin, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(350), user.Points)
		assert.Equal(t, int64(350), user.HighScore)
	})

	t.Run("debit keeps the high score", func(t *testing.T) {
		userRepo, historyRepo, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 100, HighScore: 400}, nil)
		userRepo.On("UpdateBalance", ctx, int64(42), int64(60)).Return(nil)
		historyRepo.On("Record", ctx, mock.Anything).Return(nil)

		user, err := svc.ApplyBalanceChange(ctx, 42, -40, entities.TransactionTypeBetStake, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(60), user.Points)
		assert.Equal(t, int64(400), user.HighScore)
	})

	t.Run("spend below zero is rejected", func(t *testing.T) {
		userRepo, _, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 30}, nil)

		_, err := svc.ApplyBalanceChange(ctx, 42, -50, entities.TransactionTypeBetStake, nil)
		require.Error(t, err)
		userRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo, _, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(nil, nil)

		_, err := svc.ApplyBalanceChange(ctx, 42, 10, entities.TransactionTypeAdmin, nil)
		assert.Error(t, err)
	})
}

func TestUserService_Gift(t *testing.T) {
	ctx := context.Background()

	t.Run("self gift rejected", func(t *testing.T) {
		_, _, svc := newUserServiceFixture(t)
		err := svc.Gift(ctx, 42, 42, 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yourself")
	})

	t.Run("sender must afford the gift", func(t *testing.T) {
		userRepo, _, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&entities.User{DiscordID: 1, Points: 50}, nil)

		err := svc.Gift(ctx, 1, 2, 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient")
	})

	t.Run("gift debits then credits", func(t *testing.T) {
		userRepo, historyRepo, svc := newUserServiceFixture(t)
		userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&entities.User{DiscordID: 1, Points: 500}, nil)
		userRepo.On("GetByDiscordID", ctx, int64(2)).Return(&entities.User{DiscordID: 2, Points: 10}, nil)
		userRepo.On("UpdateBalance", ctx, int64(1), int64(400)).Return(nil)
		userRepo.On("UpdateBalance", ctx, int64(2), int64(110)).Return(nil)
		historyRepo.On("Record", ctx, mock.Anything).Return(nil)

		err := svc.Gift(ctx, 1, 2, 100)
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}
