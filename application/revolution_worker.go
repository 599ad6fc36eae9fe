package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	log "github.com/sirupsen/logrus"
)

// revolutionDuration is how long the weekly vote stays open
const revolutionDuration = 4 * time.Hour

// RevolutionWorker opens the weekly revolution and resolves expired ones
type RevolutionWorker struct {
	uowFactory interfaces.UnitOfWorkFactory
	guilds     GuildLister
	announcer  Announcer
}

// NewRevolutionWorker creates a new revolution worker
func NewRevolutionWorker(uowFactory interfaces.UnitOfWorkFactory, guilds GuildLister, announcer Announcer) *RevolutionWorker {
	return &RevolutionWorker{
		uowFactory: uowFactory,
		guilds:     guilds,
		announcer:  announcer,
	}
}

// OpenWeekly starts a revolution event in every guild with a seated King
func (w *RevolutionWorker) OpenWeekly(ctx context.Context) {
	guildIDs, err := w.guilds.ListGuildIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Revolution worker failed to list guilds")
		return
	}

	for _, guildID := range guildIDs {
		if err := w.openGuild(ctx, guildID); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Warn("Could not open revolution")
		}
	}
}

func (w *RevolutionWorker) openGuild(ctx context.Context, guildID int64) error {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := w.buildService(uow)
	event, err := svc.OpenEvent(ctx, guildID, time.Now().Add(revolutionDuration))
	if err != nil {
		return err
	}

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit revolution event: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"event_id": event.ID,
		"chance":   event.Chance,
	}).Info("Revolution opened")

	if settings.RevolutionChannelID != nil {
		message := fmt.Sprintf("REVOLUTION! The King's reign is under threat. The uprising succeeds with a %d%% chance, so choose your side before it resolves.", event.Chance)
		if err := w.announcer.Announce(ctx, *settings.RevolutionChannelID, message); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Warn("Failed to announce revolution")
		}
	}

	return nil
}

// ResolveDue rolls every guild's expired revolution. Guilds with no open or
// no expired event are skipped quietly.
func (w *RevolutionWorker) ResolveDue(ctx context.Context) {
	guildIDs, err := w.guilds.ListGuildIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Revolution worker failed to list guilds")
		return
	}

	for _, guildID := range guildIDs {
		if err := w.resolveGuild(ctx, guildID); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Error("Revolution resolution failed")
		}
	}
}

func (w *RevolutionWorker) resolveGuild(ctx context.Context, guildID int64) error {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := w.buildService(uow)
	event, err := svc.Resolve(ctx, rand.Intn(100))
	if errors.Is(err, entities.ErrEventClosed) || errors.Is(err, entities.ErrEventNotExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit revolution resolution: %w", err)
	}

	if settings.RevolutionChannelID != nil {
		message := "The revolution failed. Long live the King!"
		if event.Success != nil && *event.Success {
			message = "The revolution succeeded! The King has been overthrown."
		}
		if err := w.announcer.Announce(ctx, *settings.RevolutionChannelID, message); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Warn("Failed to announce revolution outcome")
		}
	}

	return nil
}

func (w *RevolutionWorker) buildService(uow interfaces.UnitOfWork) interfaces.RevolutionService {
	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewRevolutionService(
		uow.RevolutionRepository(),
		uow.UserRepository(),
		uow.GuildSettingsRepository(),
		userService,
		uow.EventBus(),
	)
}
