package services

import (
	"context"
	"testing"
	"time"

	"bsebot/config"
	"bsebot/domain/entities"
	"bsebot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type revolutionFixture struct {
	revolutionRepo *testhelpers.MockRevolutionRepository
	userRepo       *testhelpers.MockUserRepository
	settingsRepo   *testhelpers.MockGuildSettingsRepository
	userService    *testhelpers.MockUserService
	svc            *revolutionService
}

func newRevolutionFixture(t *testing.T) *revolutionFixture {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	f := &revolutionFixture{
		revolutionRepo: new(testhelpers.MockRevolutionRepository),
		userRepo:       new(testhelpers.MockUserRepository),
		settingsRepo:   new(testhelpers.MockGuildSettingsRepository),
		userService:    new(testhelpers.MockUserService),
	}
	f.svc = NewRevolutionService(f.revolutionRepo, f.userRepo, f.settingsRepo, f.userService, testhelpers.NoopEventPublisher{}).(*revolutionService)
	return f
}

const revKingID = int64(99)

func openRevolution() *entities.RevolutionEvent {
	return &entities.RevolutionEvent{
		ID:        1,
		GuildID:   100,
		KingID:    revKingID,
		Chance:    30,
		Open:      true,
		ExpiresAt: time.Now().Add(4 * time.Hour),
	}
}

func TestRevolutionService_OpenEvent(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Now().Add(4 * time.Hour)

	t.Run("requires a seated King", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).Return(&entities.GuildSettings{GuildID: 100}, nil)

		_, err := f.svc.OpenEvent(ctx, 100, expiresAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no King")
	})

	t.Run("rejects a second open event", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(openRevolution(), nil)

		_, err := f.svc.OpenEvent(ctx, 100, expiresAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already underway")
	})

	t.Run("opens with the configured base chance", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.revolutionRepo.On("GetPledges", ctx).Return([]*entities.RevolutionPledge{}, nil)
		f.revolutionRepo.On("Create", ctx, mock.Anything).Return(nil)

		event, err := f.svc.OpenEvent(ctx, 100, expiresAt)
		require.NoError(t, err)
		assert.Equal(t, 30, event.Chance)
		assert.Equal(t, revKingID, event.KingID)
		assert.True(t, event.Open)
		f.revolutionRepo.AssertNotCalled(t, "DeletePledges", mock.Anything)
	})

	t.Run("standing pledges seed the factions and lock", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.revolutionRepo.On("GetPledges", ctx).Return([]*entities.RevolutionPledge{
			{GuildID: 100, DiscordID: 42, Side: entities.PledgeOverthrow},
			{GuildID: 100, DiscordID: 43, Side: entities.PledgeSupport},
			{GuildID: 100, DiscordID: 44, Side: entities.PledgeOverthrow},
		}, nil)
		f.revolutionRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.revolutionRepo.On("DeletePledges", ctx).Return(nil)

		event, err := f.svc.OpenEvent(ctx, 100, expiresAt)
		require.NoError(t, err)

		// Base 30, two overthrow pledges +15 each, one support pledge -15
		assert.Equal(t, 45, event.Chance)
		assert.ElementsMatch(t, []int64{42, 44}, event.Revolutionaries)
		assert.ElementsMatch(t, []int64{43}, event.Supporters)
		assert.ElementsMatch(t, []int64{42, 43, 44}, event.Locked)

		// A locked pledge cannot switch sides once the event is open
		assert.ErrorIs(t, event.Overthrow(43, time.Now()), entities.ErrPledgeLocked)
		assert.ErrorIs(t, event.Support(42, time.Now()), entities.ErrPledgeLocked)

		f.revolutionRepo.AssertExpectations(t)
	})

	t.Run("a pledge from the sitting King is ignored", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.revolutionRepo.On("GetPledges", ctx).Return([]*entities.RevolutionPledge{
			{GuildID: 100, DiscordID: revKingID, Side: entities.PledgeSupport},
		}, nil)
		f.revolutionRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.revolutionRepo.On("DeletePledges", ctx).Return(nil)

		event, err := f.svc.OpenEvent(ctx, 100, expiresAt)
		require.NoError(t, err)
		assert.Equal(t, 30, event.Chance)
		assert.Empty(t, event.Supporters)
		assert.Empty(t, event.Locked)
	})
}

func TestRevolutionService_Pledge(t *testing.T) {
	ctx := context.Background()

	t.Run("records the commitment", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.revolutionRepo.On("CreatePledge", ctx, mock.MatchedBy(func(p *entities.RevolutionPledge) bool {
			return p.DiscordID == 42 && p.Side == entities.PledgeOverthrow
		})).Return(nil)

		err := f.svc.Pledge(ctx, 100, 42, entities.PledgeOverthrow)
		require.NoError(t, err)
		f.revolutionRepo.AssertExpectations(t)
	})

	t.Run("rejected once the revolution is underway", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(openRevolution(), nil)

		err := f.svc.Pledge(ctx, 100, 42, entities.PledgeSupport)
		assert.ErrorIs(t, err, entities.ErrRevolutionUnderway)
		f.revolutionRepo.AssertNotCalled(t, "CreatePledge", mock.Anything, mock.Anything)
	})

	t.Run("the King cannot pledge", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)

		err := f.svc.Pledge(ctx, 100, revKingID, entities.PledgeSupport)
		assert.ErrorIs(t, err, entities.ErrKingCannotVote)
	})

	t.Run("a second pledge is rejected", func(t *testing.T) {
		f := newRevolutionFixture(t)
		kingID := revKingID
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.revolutionRepo.On("CreatePledge", ctx, mock.Anything).Return(entities.ErrAlreadyPledged)

		err := f.svc.Pledge(ctx, 100, 42, entities.PledgeSupport)
		assert.ErrorIs(t, err, entities.ErrAlreadyPledged)
	})

	t.Run("unknown side is rejected", func(t *testing.T) {
		f := newRevolutionFixture(t)

		err := f.svc.Pledge(ctx, 100, 42, entities.PledgeSide("abstain"))
		assert.ErrorIs(t, err, entities.ErrInvalidPledgeSide)
	})
}

func TestRevolutionService_Factions(t *testing.T) {
	ctx := context.Background()

	t.Run("overthrow raises the chance by the swing", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		updated, err := f.svc.Overthrow(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 45, updated.Chance)
		assert.Contains(t, updated.Revolutionaries, int64(42))
		assert.Contains(t, updated.Participants, int64(42))
	})

	t.Run("switching factions nets a single swing", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		_, err := f.svc.Overthrow(ctx, 42)
		require.NoError(t, err)
		_, err = f.svc.Support(ctx, 42)
		require.NoError(t, err)
		updated, err := f.svc.Overthrow(ctx, 42)
		require.NoError(t, err)

		assert.Equal(t, 45, updated.Chance)
		assert.Contains(t, updated.Revolutionaries, int64(42))
		assert.NotContains(t, updated.Supporters, int64(42))
	})

	t.Run("the King cannot vote", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(openRevolution(), nil)

		_, err := f.svc.Overthrow(ctx, revKingID)
		assert.ErrorIs(t, err, entities.ErrKingCannotVote)
	})

	t.Run("locked pledges cannot move", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		event.Supporters = []int64{42}
		event.Locked = []int64{42}
		event.Chance = 15
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)

		_, err := f.svc.Overthrow(ctx, 42)
		assert.ErrorIs(t, err, entities.ErrPledgeLocked)
	})

	t.Run("no open event", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(nil, nil)

		_, err := f.svc.Support(ctx, 42)
		assert.ErrorIs(t, err, entities.ErrEventClosed)
	})
}

func TestRevolutionService_SaveThyself(t *testing.T) {
	ctx := context.Background()

	t.Run("only the King may save", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(openRevolution(), nil)

		_, err := f.svc.SaveThyself(ctx, 42)
		assert.ErrorIs(t, err, entities.ErrNotTheKing)
	})

	t.Run("charges a tenth of the fortune and drops the chance", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.userRepo.On("GetByDiscordID", ctx, revKingID).Return(&entities.User{DiscordID: revKingID, Points: 5000, King: true}, nil)
		f.userService.On("ApplyBalanceChange", ctx, revKingID, int64(-500), entities.TransactionTypeRevolutionSave, mock.Anything).
			Return(&entities.User{DiscordID: revKingID, Points: 4500}, nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		updated, err := f.svc.SaveThyself(ctx, revKingID)
		require.NoError(t, err)
		assert.Equal(t, 15, updated.Chance)
		assert.Equal(t, 1, updated.TimesSaved)
		f.userService.AssertExpectations(t)
	})

	t.Run("a broke King saves for free", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.userRepo.On("GetByDiscordID", ctx, revKingID).Return(&entities.User{DiscordID: revKingID, Points: 0, King: true}, nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		updated, err := f.svc.SaveThyself(ctx, revKingID)
		require.NoError(t, err)
		assert.Equal(t, 15, updated.Chance)
		f.userService.AssertNotCalled(t, "ApplyBalanceChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRevolutionService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot resolve before expiry", func(t *testing.T) {
		f := newRevolutionFixture(t)
		f.revolutionRepo.On("GetOpen", ctx).Return(openRevolution(), nil)

		_, err := f.svc.Resolve(ctx, 10)
		assert.ErrorIs(t, err, entities.ErrEventNotExpired)
	})

	t.Run("failed roll keeps the King", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		event.ExpiresAt = time.Now().Add(-time.Minute)
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		updated, err := f.svc.Resolve(ctx, 50)
		require.NoError(t, err)
		assert.False(t, updated.Open)
		require.NotNil(t, updated.Success)
		assert.False(t, *updated.Success)
		f.userRepo.AssertNotCalled(t, "SetKing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful roll crowns the richest revolutionary", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		event.ExpiresAt = time.Now().Add(-time.Minute)
		event.Revolutionaries = []int64{1, 2}
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.userRepo.On("GetByDiscordID", ctx, int64(1)).Return(&entities.User{DiscordID: 1, Points: 100}, nil)
		f.userRepo.On("GetByDiscordID", ctx, int64(2)).Return(&entities.User{DiscordID: 2, Points: 900}, nil)
		f.userRepo.On("SetKing", ctx, revKingID, false).Return(nil)
		f.userRepo.On("SetKing", ctx, int64(2), true).Return(nil)

		kingID := revKingID
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.settingsRepo.On("UpdateGuildSettings", ctx, mock.MatchedBy(func(s *entities.GuildSettings) bool {
			return s.KingID != nil && *s.KingID == 2
		})).Return(nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		updated, err := f.svc.Resolve(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, updated.Success)
		assert.True(t, *updated.Success)

		f.userRepo.AssertExpectations(t)
		f.settingsRepo.AssertExpectations(t)
	})

	t.Run("overthrow with no revolutionaries empties the throne", func(t *testing.T) {
		f := newRevolutionFixture(t)
		event := openRevolution()
		event.ExpiresAt = time.Now().Add(-time.Minute)
		f.revolutionRepo.On("GetOpen", ctx).Return(event, nil)
		f.userRepo.On("SetKing", ctx, revKingID, false).Return(nil)

		kingID := revKingID
		f.settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).
			Return(&entities.GuildSettings{GuildID: 100, KingID: &kingID}, nil)
		f.settingsRepo.On("UpdateGuildSettings", ctx, mock.MatchedBy(func(s *entities.GuildSettings) bool {
			return s.KingID == nil
		})).Return(nil)
		f.revolutionRepo.On("Update", ctx, event).Return(nil)

		_, err := f.svc.Resolve(ctx, 0)
		require.NoError(t, err)
		f.settingsRepo.AssertExpectations(t)
	})
}
