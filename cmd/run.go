package cmd

import (
	"context"
	"fmt"
	"time"

	"bsebot/application"
	"bsebot/bot"
	"bsebot/config"
	"bsebot/database"
	"bsebot/domain/events"
	"bsebot/repository"
	"bsebot/scheduler"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting bsebot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	guildSettingsRepo := repository.NewGuildSettingsRepository(db)

	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:       cfg.DiscordToken,
		WordleBotID: cfg.WordleBotID,
	}
	discordBot, err := bot.New(botConfig, uowFactory, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// The bot doubles as the announcer; the settings repo enumerates guilds
	salaryWorker := application.NewSalaryWorker(uowFactory, guildSettingsRepo, discordBot)
	revolutionWorker := application.NewRevolutionWorker(uowFactory, guildSettingsRepo, discordBot)
	betExpiryWorker := application.NewBetExpiryWorker(uowFactory, guildSettingsRepo)

	jobs := scheduler.NewScheduler(salaryWorker, revolutionWorker, betExpiryWorker)
	if err := jobs.Start(ctx); err != nil {
		discordBot.Close()
		db.Close()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Infof("Bot is running in %s mode", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	jobs.Stop()

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Warn("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
