package application

import (
	"context"
	"fmt"
	"time"

	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	log "github.com/sirupsen/logrus"
)

// SalaryWorker runs the nightly salary distribution across every guild
type SalaryWorker struct {
	uowFactory interfaces.UnitOfWorkFactory
	guilds     GuildLister
	announcer  Announcer
}

// NewSalaryWorker creates a new salary worker
func NewSalaryWorker(uowFactory interfaces.UnitOfWorkFactory, guilds GuildLister, announcer Announcer) *SalaryWorker {
	return &SalaryWorker{
		uowFactory: uowFactory,
		guilds:     guilds,
		announcer:  announcer,
	}
}

// Run distributes salaries for the previous day in every guild. Each guild is
// one transaction; a failure in one guild does not block the others.
func (w *SalaryWorker) Run(ctx context.Context) {
	guildIDs, err := w.guilds.ListGuildIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Salary worker failed to list guilds")
		return
	}

	// The job fires just after midnight UTC and pays out yesterday's activity
	day := time.Now().UTC().AddDate(0, 0, -1)

	for _, guildID := range guildIDs {
		if err := w.runGuild(ctx, guildID, day); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Error("Salary distribution failed")
		}
	}
}

func (w *SalaryWorker) runGuild(ctx context.Context, guildID int64, day time.Time) error {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	salaryService := services.NewSalaryService(
		uow.UserRepository(),
		uow.InteractionRepository(),
		uow.WordleRepository(),
		uow.SalaryRunRepository(),
		uow.GuildSettingsRepository(),
		userService,
	)

	result, err := salaryService.RunDaily(ctx, day, true)
	if err != nil {
		return err
	}

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit salary run: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id":      guildID,
		"day":           result.Day.Format("2006-01-02"),
		"total_paid":    result.TotalPaid,
		"tax_collected": result.TaxCollected,
		"users":         len(result.Breakdowns),
	}).Info("Salary distributed")

	if settings.SalaryChannelID != nil && result.TotalPaid > 0 {
		message := fmt.Sprintf("Eddies salaries are in: %d eddies paid across %d users (the King skimmed %d in tax).",
			result.TotalPaid, len(result.Breakdowns), result.TaxCollected)
		if err := w.announcer.Announce(ctx, *settings.SalaryChannelID, message); err != nil {
			log.WithError(err).WithField("guild_id", guildID).Warn("Failed to announce salary run")
		}
	}

	return nil
}
