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

type wordleRepository struct {
	q       Queryable
	guildID int64
}

// NewWordleRepository creates a new wordle repository
func NewWordleRepository(db *database.DB) interfaces.WordleRepository {
	return &wordleRepository{q: db.Pool}
}

// NewWordleRepositoryScoped creates a new wordle repository with a transaction and guild scope
func NewWordleRepositoryScoped(tx Queryable, guildID int64) interfaces.WordleRepository {
	return &wordleRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Upsert inserts or replaces the user's attempt for the day
func (r *wordleRepository) Upsert(ctx context.Context, attempt *entities.WordleAttempt) error {
	query := `
		INSERT INTO wordle_attempts (guild_id, discord_id, puzzle, guesses, max_guesses, day)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (guild_id, discord_id, day)
		DO UPDATE SET puzzle = EXCLUDED.puzzle, guesses = EXCLUDED.guesses, max_guesses = EXCLUDED.max_guesses
		RETURNING id, created_at
	`
	attempt.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		attempt.DiscordID,
		attempt.Puzzle,
		attempt.Guesses,
		attempt.MaxGuesses,
		attempt.Day,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert wordle attempt: %w", err)
	}
	return nil
}

// GetByUserAndDay returns the user's attempt for the day, or nil
func (r *wordleRepository) GetByUserAndDay(ctx context.Context, discordID int64, day time.Time) (*entities.WordleAttempt, error) {
	query := `
		SELECT id, guild_id, discord_id, puzzle, guesses, max_guesses, day, created_at
		FROM wordle_attempts
		WHERE guild_id = $1 AND discord_id = $2 AND day = $3
	`
	var attempt entities.WordleAttempt
	err := r.q.QueryRow(ctx, query, r.guildID, discordID, day).Scan(
		&attempt.ID,
		&attempt.GuildID,
		&attempt.DiscordID,
		&attempt.Puzzle,
		&attempt.Guesses,
		&attempt.MaxGuesses,
		&attempt.Day,
		&attempt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wordle attempt: %w", err)
	}
	return &attempt, nil
}

// GetByDay returns all attempts for the day, including the bot's
func (r *wordleRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.WordleAttempt, error) {
	query := `
		SELECT id, guild_id, discord_id, puzzle, guesses, max_guesses, day, created_at
		FROM wordle_attempts
		WHERE guild_id = $1 AND day = $2
		ORDER BY guesses
	`
	rows, err := r.q.Query(ctx, query, r.guildID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query wordle attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*entities.WordleAttempt
	for rows.Next() {
		var a entities.WordleAttempt
		err := rows.Scan(&a.ID, &a.GuildID, &a.DiscordID, &a.Puzzle, &a.Guesses, &a.MaxGuesses, &a.Day, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wordle attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wordle attempts: %w", err)
	}
	return attempts, nil
}
