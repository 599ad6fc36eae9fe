// Package scheduler runs the bot's recurring jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"bsebot/application"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler owns the cron instance driving the daily and weekly jobs.
// Everything runs in UTC; the salary day window depends on it.
type Scheduler struct {
	cron             *cron.Cron
	salaryWorker     *application.SalaryWorker
	revolutionWorker *application.RevolutionWorker
	betExpiryWorker  *application.BetExpiryWorker
}

// NewScheduler creates a scheduler wired to the workers
func NewScheduler(
	salaryWorker *application.SalaryWorker,
	revolutionWorker *application.RevolutionWorker,
	betExpiryWorker *application.BetExpiryWorker,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(cron.WithLocation(time.UTC)),
		salaryWorker:     salaryWorker,
		revolutionWorker: revolutionWorker,
		betExpiryWorker:  betExpiryWorker,
	}
}

// Start registers the schedules and begins running jobs
func (s *Scheduler) Start(ctx context.Context) error {
	// Salaries land just past midnight so the full previous day is counted
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		log.Info("[CRON] Daily salary distribution")
		s.salaryWorker.Run(ctx)
	}); err != nil {
		return err
	}

	// Expired bets stop accepting stakes within a minute of their timeout
	if _, err := s.cron.AddFunc("* * * * *", func() {
		s.betExpiryWorker.Run(ctx)
	}); err != nil {
		return err
	}

	// The weekly revolution opens Thursday afternoon
	if _, err := s.cron.AddFunc("0 16 * * 4", func() {
		log.Info("[CRON] Opening weekly revolutions")
		s.revolutionWorker.OpenWeekly(ctx)
	}); err != nil {
		return err
	}

	// Expired revolutions resolve every evening
	if _, err := s.cron.AddFunc("0 20 * * *", func() {
		log.Info("[CRON] Resolving due revolutions")
		s.revolutionWorker.ResolveDue(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Info("Scheduler started (UTC)")
	return nil
}

// Stop halts the scheduler, waiting for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}
