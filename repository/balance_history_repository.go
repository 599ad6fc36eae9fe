package repository

import (
	"context"
	"fmt"
	"time"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"
)

type balanceHistoryRepository struct {
	q       Queryable
	guildID int64
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(db *database.DB) interfaces.BalanceHistoryRepository {
	return &balanceHistoryRepository{q: db.Pool}
}

// NewBalanceHistoryRepositoryScoped creates a new balance history repository with a transaction and guild scope
func NewBalanceHistoryRepositoryScoped(tx Queryable, guildID int64) interfaces.BalanceHistoryRepository {
	return &balanceHistoryRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Record appends a ledger entry
func (r *balanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	query := `
		INSERT INTO balance_history (guild_id, discord_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	history.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		history.DiscordID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		history.TransactionType,
		history.TransactionMetadata,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}
	return nil
}

const balanceHistoryColumns = `id, guild_id, discord_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata, created_at`

func (r *balanceHistoryRepository) getMany(ctx context.Context, query string, args ...any) ([]*entities.BalanceHistory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance history: %w", err)
	}
	defer rows.Close()

	var entries []*entities.BalanceHistory
	for rows.Next() {
		var h entities.BalanceHistory
		err := rows.Scan(
			&h.ID,
			&h.GuildID,
			&h.DiscordID,
			&h.BalanceBefore,
			&h.BalanceAfter,
			&h.ChangeAmount,
			&h.TransactionType,
			&h.TransactionMetadata,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}
	return entries, nil
}

// GetByUser returns the user's most recent ledger entries
func (r *balanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM balance_history
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, balanceHistoryColumns)
	return r.getMany(ctx, query, r.guildID, discordID, limit)
}

// GetByDateRange returns all ledger entries in [from, to)
func (r *balanceHistoryRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*entities.BalanceHistory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM balance_history
		WHERE guild_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at
	`, balanceHistoryColumns)
	return r.getMany(ctx, query, r.guildID, from, to)
}
