package repository

import (
	"context"
	"fmt"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type revolutionRepository struct {
	q       Queryable
	guildID int64
}

// NewRevolutionRepository creates a new revolution repository
func NewRevolutionRepository(db *database.DB) interfaces.RevolutionRepository {
	return &revolutionRepository{q: db.Pool}
}

// NewRevolutionRepositoryScoped creates a new revolution repository with a transaction and guild scope
func NewRevolutionRepositoryScoped(tx Queryable, guildID int64) interfaces.RevolutionRepository {
	return &revolutionRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Create inserts a new event. The partial unique index on open events
// enforces at most one per guild.
func (r *revolutionRepository) Create(ctx context.Context, event *entities.RevolutionEvent) error {
	query := `
		INSERT INTO revolution_events (guild_id, king_discord_id, chance, supporters, revolutionaries, neutrals, locked, participants, times_saved, open, expires_at, message_id, channel_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`
	event.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		event.KingID,
		event.Chance,
		emptyIfNil(event.Supporters),
		emptyIfNil(event.Revolutionaries),
		emptyIfNil(event.Neutrals),
		emptyIfNil(event.Locked),
		emptyIfNil(event.Participants),
		event.TimesSaved,
		event.Open,
		event.ExpiresAt,
		event.MessageID,
		event.ChannelID,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create revolution event: %w", err)
	}
	return nil
}

// GetOpen returns the guild's open event, or nil
func (r *revolutionRepository) GetOpen(ctx context.Context) (*entities.RevolutionEvent, error) {
	query := `
		SELECT id, guild_id, king_discord_id, chance, supporters, revolutionaries, neutrals, locked, participants, times_saved, open, success, expires_at, message_id, channel_id, created_at, closed_at
		FROM revolution_events
		WHERE guild_id = $1 AND open
	`
	var event entities.RevolutionEvent
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&event.ID,
		&event.GuildID,
		&event.KingID,
		&event.Chance,
		&event.Supporters,
		&event.Revolutionaries,
		&event.Neutrals,
		&event.Locked,
		&event.Participants,
		&event.TimesSaved,
		&event.Open,
		&event.Success,
		&event.ExpiresAt,
		&event.MessageID,
		&event.ChannelID,
		&event.CreatedAt,
		&event.ClosedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open revolution event: %w", err)
	}
	return &event, nil
}

// Update persists chance, factions, lock state and lifecycle fields
func (r *revolutionRepository) Update(ctx context.Context, event *entities.RevolutionEvent) error {
	query := `
		UPDATE revolution_events
		SET chance = $2,
			supporters = $3,
			revolutionaries = $4,
			neutrals = $5,
			locked = $6,
			participants = $7,
			times_saved = $8,
			open = $9,
			success = $10,
			message_id = $11,
			channel_id = $12,
			closed_at = $13
		WHERE id = $1 AND guild_id = $14
	`
	result, err := r.q.Exec(ctx, query,
		event.ID,
		event.Chance,
		emptyIfNil(event.Supporters),
		emptyIfNil(event.Revolutionaries),
		emptyIfNil(event.Neutrals),
		emptyIfNil(event.Locked),
		emptyIfNil(event.Participants),
		event.TimesSaved,
		event.Open,
		event.Success,
		event.MessageID,
		event.ChannelID,
		event.ClosedAt,
		r.guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update revolution event %d: %w", event.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("revolution event %d not found in guild %d", event.ID, r.guildID)
	}
	return nil
}

// CreatePledge records a pre-event commitment. The primary key makes a
// repeat pledge a conflict, which surfaces as ErrAlreadyPledged.
func (r *revolutionRepository) CreatePledge(ctx context.Context, pledge *entities.RevolutionPledge) error {
	query := `
		INSERT INTO revolution_pledges (guild_id, discord_id, side)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, discord_id) DO NOTHING
	`
	pledge.GuildID = r.guildID
	result, err := r.q.Exec(ctx, query, r.guildID, pledge.DiscordID, pledge.Side)
	if err != nil {
		return fmt.Errorf("failed to create pledge: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrAlreadyPledged
	}
	return nil
}

// GetPledges returns the guild's standing pledges
func (r *revolutionRepository) GetPledges(ctx context.Context) ([]*entities.RevolutionPledge, error) {
	query := `
		SELECT guild_id, discord_id, side, created_at
		FROM revolution_pledges
		WHERE guild_id = $1
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledges: %w", err)
	}
	defer rows.Close()

	var pledges []*entities.RevolutionPledge
	for rows.Next() {
		var p entities.RevolutionPledge
		if err := rows.Scan(&p.GuildID, &p.DiscordID, &p.Side, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pledge: %w", err)
		}
		pledges = append(pledges, &p)
	}
	return pledges, rows.Err()
}

// DeletePledges clears the guild's standing pledges
func (r *revolutionRepository) DeletePledges(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM revolution_pledges WHERE guild_id = $1`, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to delete pledges: %w", err)
	}
	return nil
}

// emptyIfNil keeps array columns NOT NULL friendly
func emptyIfNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
