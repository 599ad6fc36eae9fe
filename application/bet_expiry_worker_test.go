package application

import (
	"context"
	"testing"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/events"
	"bsebot/domain/testhelpers"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBetExpiryWorker_TimeoutPublishesStateChange(t *testing.T) {
	ctx := context.Background()

	guilds := new(testhelpers.MockGuildSettingsRepository)
	guilds.On("ListGuildIDs", ctx).Return([]int64{100}, nil)

	expired := &entities.Bet{
		ID:        1,
		BetID:     "007",
		GuildID:   100,
		Title:     "who wins the game",
		Active:    true,
		TimeoutAt: time.Now().Add(-time.Hour),
		MessageID: 777,
		ChannelID: 888,
	}

	betRepo := new(testhelpers.MockBetRepository)
	betRepo.On("GetExpiredActive", ctx, mock.Anything).Return([]*entities.Bet{expired}, nil)
	betRepo.On("GetByBetID", ctx, "007").Return(expired, nil)
	betRepo.On("Close", ctx, "007").Return(nil)

	// The embed refresh subscription keys off this event; a sweep that
	// closes a bet without publishing it leaves the embed showing open
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		sc, ok := e.(events.BetStateChangeEvent)
		return ok && sc.BetID == "007" && sc.NewState == "closed" && sc.MessageID == 777
	})).Return()

	uow := new(testhelpers.MockUnitOfWork)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("BetRepository").Return(betRepo)
	uow.On("UserRepository").Return(new(testhelpers.MockUserRepository))
	uow.On("BalanceHistoryRepository").Return(new(testhelpers.MockBalanceHistoryRepository))
	uow.On("GuildSettingsRepository").Return(new(testhelpers.MockGuildSettingsRepository))
	uow.On("EventBus").Return(publisher)

	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(100)).Return(uow)

	worker := NewBetExpiryWorker(factory, guilds)
	worker.Run(ctx)

	publisher.AssertExpectations(t)
	betRepo.AssertExpectations(t)
	uow.AssertCalled(t, "Commit")
}

func TestBetExpiryWorker_NothingExpired(t *testing.T) {
	ctx := context.Background()

	guilds := new(testhelpers.MockGuildSettingsRepository)
	guilds.On("ListGuildIDs", ctx).Return([]int64{100}, nil)

	betRepo := new(testhelpers.MockBetRepository)
	betRepo.On("GetExpiredActive", ctx, mock.Anything).Return([]*entities.Bet{}, nil)

	uow := new(testhelpers.MockUnitOfWork)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)
	uow.On("BetRepository").Return(betRepo)

	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(100)).Return(uow)

	worker := NewBetExpiryWorker(factory, guilds)
	worker.Run(ctx)

	require.True(t, betRepo.AssertExpectations(t))
	uow.AssertNotCalled(t, "Commit")
}
