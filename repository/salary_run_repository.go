package repository

import (
	"context"
	"fmt"
	"time"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type salaryRunRepository struct {
	q       Queryable
	guildID int64
}

// NewSalaryRunRepository creates a new salary run repository
func NewSalaryRunRepository(db *database.DB) interfaces.SalaryRunRepository {
	return &salaryRunRepository{q: db.Pool}
}

// NewSalaryRunRepositoryScoped creates a new salary run repository with a transaction and guild scope
func NewSalaryRunRepositoryScoped(tx Queryable, guildID int64) interfaces.SalaryRunRepository {
	return &salaryRunRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Record persists a completed run. The unique constraint on (guild_id, day)
// rejects a second run for the same day.
func (r *salaryRunRepository) Record(ctx context.Context, run *entities.SalaryRun) error {
	query := `
		INSERT INTO salary_runs (id, guild_id, day, users_paid, total_paid, tax_collected)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	run.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		run.ID,
		r.guildID,
		run.Day,
		run.UsersPaid,
		run.TotalPaid,
		run.TaxCollected,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record salary run: %w", err)
	}
	return nil
}

// GetByDay returns the run for the given day, or nil
func (r *salaryRunRepository) GetByDay(ctx context.Context, day time.Time) (*entities.SalaryRun, error) {
	query := `
		SELECT id, guild_id, day, users_paid, total_paid, tax_collected, created_at
		FROM salary_runs
		WHERE guild_id = $1 AND day = $2
	`
	var run entities.SalaryRun
	err := r.q.QueryRow(ctx, query, r.guildID, day).Scan(
		&run.ID,
		&run.GuildID,
		&run.Day,
		&run.UsersPaid,
		&run.TotalPaid,
		&run.TaxCollected,
		&run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salary run: %w", err)
	}
	return &run, nil
}
