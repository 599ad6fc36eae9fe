package services

import (
	"context"
	"testing"

	"bsebot/domain/entities"
	"bsebot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	userRepo := new(testhelpers.MockUserRepository)
	svc := NewGuildSettingsService(settingsRepo, userRepo)

	t.Run("rejects out-of-range tax rates", func(t *testing.T) {
		err := svc.UpdateSettings(ctx, &entities.GuildSettings{GuildID: 100, TaxRate: 1.0})
		assert.Error(t, err)

		err = svc.UpdateSettings(ctx, &entities.GuildSettings{GuildID: 100, TaxRate: -0.1})
		assert.Error(t, err)

		err = svc.UpdateSettings(ctx, &entities.GuildSettings{GuildID: 100, TaxRate: 0.1, SupporterTaxRate: 1.5})
		assert.Error(t, err)
	})

	t.Run("rejects negative daily minimum", func(t *testing.T) {
		err := svc.UpdateSettings(ctx, &entities.GuildSettings{GuildID: 100, TaxRate: 0.1, DailyMinimum: -1})
		assert.Error(t, err)
	})

	t.Run("valid settings persist", func(t *testing.T) {
		settings := &entities.GuildSettings{GuildID: 100, TaxRate: 0.2, SupporterTaxRate: 0.1, DailyMinimum: 4}
		settingsRepo.On("UpdateGuildSettings", ctx, settings).Return(nil)

		require.NoError(t, svc.UpdateSettings(ctx, settings))
		settingsRepo.AssertExpectations(t)
	})
}

func TestGuildSettingsService_SetKing(t *testing.T) {
	ctx := context.Background()

	t.Run("crowning the sitting King is a no-op", func(t *testing.T) {
		settingsRepo := new(testhelpers.MockGuildSettingsRepository)
		userRepo := new(testhelpers.MockUserRepository)
		svc := NewGuildSettingsService(settingsRepo, userRepo)

		kingID := int64(99)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)

		require.NoError(t, svc.SetKing(ctx, 100, 99))
		userRepo.AssertNotCalled(t, "SetKing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("crown moves from old King to new", func(t *testing.T) {
		settingsRepo := new(testhelpers.MockGuildSettingsRepository)
		userRepo := new(testhelpers.MockUserRepository)
		svc := NewGuildSettingsService(settingsRepo, userRepo)

		oldKing := int64(99)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &oldKing}, nil)
		userRepo.On("SetKing", ctx, int64(99), false).Return(nil)
		userRepo.On("SetKing", ctx, int64(42), true).Return(nil)
		settingsRepo.On("UpdateGuildSettings", ctx, mock.MatchedBy(func(s *entities.GuildSettings) bool {
			return s.KingID != nil && *s.KingID == 42
		})).Return(nil)

		require.NoError(t, svc.SetKing(ctx, 100, 42))
		userRepo.AssertExpectations(t)
		settingsRepo.AssertExpectations(t)
	})

	t.Run("empty throne just crowns", func(t *testing.T) {
		settingsRepo := new(testhelpers.MockGuildSettingsRepository)
		userRepo := new(testhelpers.MockUserRepository)
		svc := NewGuildSettingsService(settingsRepo, userRepo)

		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100}, nil)
		userRepo.On("SetKing", ctx, int64(42), true).Return(nil)
		settingsRepo.On("UpdateGuildSettings", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.SetKing(ctx, 100, 42))
		userRepo.AssertNotCalled(t, "SetKing", ctx, mock.Anything, false)
	})
}
