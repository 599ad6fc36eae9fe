package repository

import (
	"context"
	"fmt"

	"bsebot/config"
	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type guildSettingsRepository struct {
	q Queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) interfaces.GuildSettingsRepository {
	return &guildSettingsRepository{q: db.Pool}
}

// NewGuildSettingsRepositoryWithTx creates a new guild settings repository with a transaction
func NewGuildSettingsRepositoryWithTx(tx Queryable) interfaces.GuildSettingsRepository {
	return &guildSettingsRepository{q: tx}
}

const guildSettingsColumns = `guild_id, king_discord_id, tax_rate, supporter_tax_rate, daily_minimum, salary_channel_id, revolution_channel_id`

func (r *guildSettingsRepository) scanSettings(row pgx.Row) (*entities.GuildSettings, error) {
	var settings entities.GuildSettings
	err := row.Scan(
		&settings.GuildID,
		&settings.KingID,
		&settings.TaxRate,
		&settings.SupporterTaxRate,
		&settings.DailyMinimum,
		&settings.SalaryChannelID,
		&settings.RevolutionChannelID,
	)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetOrCreateGuildSettings returns the guild's settings, creating the row
// with configured defaults on first use
func (r *guildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	query := fmt.Sprintf(`SELECT %s FROM guild_settings WHERE guild_id = $1`, guildSettingsColumns)
	settings, err := r.scanSettings(r.q.QueryRow(ctx, query, guildID))
	if err == nil {
		return settings, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get guild settings for %d: %w", guildID, err)
	}

	cfg := config.Get()
	insert := fmt.Sprintf(`
		INSERT INTO guild_settings (guild_id, tax_rate, supporter_tax_rate, daily_minimum)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING %s
	`, guildSettingsColumns)
	settings, err = r.scanSettings(r.q.QueryRow(ctx, insert, guildID, cfg.TaxRate, cfg.SupporterTaxRate, cfg.DailyMinimumDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create guild settings for %d: %w", guildID, err)
	}
	return settings, nil
}

// UpdateGuildSettings persists the full settings row
func (r *guildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET king_discord_id = $2,
			tax_rate = $3,
			supporter_tax_rate = $4,
			daily_minimum = $5,
			salary_channel_id = $6,
			revolution_channel_id = $7
		WHERE guild_id = $1
	`
	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.KingID,
		settings.TaxRate,
		settings.SupporterTaxRate,
		settings.DailyMinimum,
		settings.SalaryChannelID,
		settings.RevolutionChannelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for %d: %w", settings.GuildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for %d not found", settings.GuildID)
	}
	return nil
}

// ListGuildIDs returns every guild with a settings row. Scheduled jobs
// iterate this to run per guild.
func (r *guildSettingsRepository) ListGuildIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT guild_id FROM guild_settings ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild IDs: %w", err)
	}
	return ids, nil
}
