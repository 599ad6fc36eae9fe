package application

import (
	"context"
	"fmt"
	"time"

	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	log "github.com/sirupsen/logrus"
)

// BetExpiryWorker closes bets that have passed their timeout so no further
// stakes land on them. Results still need a human to declare.
type BetExpiryWorker struct {
	uowFactory interfaces.UnitOfWorkFactory
	guilds     GuildLister
}

// NewBetExpiryWorker creates a new bet expiry worker
func NewBetExpiryWorker(uowFactory interfaces.UnitOfWorkFactory, guilds GuildLister) *BetExpiryWorker {
	return &BetExpiryWorker{
		uowFactory: uowFactory,
		guilds:     guilds,
	}
}

// Run sweeps every guild once
func (w *BetExpiryWorker) Run(ctx context.Context) {
	guildIDs, err := w.guilds.ListGuildIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Bet expiry worker failed to list guilds")
		return
	}

	for _, guildID := range guildIDs {
		if err := w.sweepGuild(ctx, guildID); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Error("Bet expiry sweep failed")
		}
	}
}

func (w *BetExpiryWorker) sweepGuild(ctx context.Context, guildID int64) error {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.BetRepository().GetExpiredActive(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to get expired bets: %w", err)
	}
	if len(expired) == 0 {
		return uow.Rollback()
	}

	// Closing through the service publishes the state-change event that
	// redraws the bet's embed once the transaction commits
	betService := w.buildService(uow)
	for _, bet := range expired {
		if err := betService.CloseBet(ctx, bet.BetID); err != nil {
			return fmt.Errorf("failed to close bet %s: %w", bet.BetID, err)
		}
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"bet_id":   bet.BetID,
			"title":    bet.Title,
		}).Info("Bet timed out, stakes closed")
	}

	return uow.Commit()
}

func (w *BetExpiryWorker) buildService(uow interfaces.UnitOfWork) interfaces.BetService {
	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewBetService(
		uow.BetRepository(),
		uow.UserRepository(),
		uow.GuildSettingsRepository(),
		userService,
		uow.EventBus(),
	)
}
