package repository

import (
	"context"
	"fmt"
	"time"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"
)

type interactionRepository struct {
	q       Queryable
	guildID int64
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *database.DB) interfaces.InteractionRepository {
	return &interactionRepository{q: db.Pool}
}

// NewInteractionRepositoryScoped creates a new interaction repository with a transaction and guild scope
func NewInteractionRepositoryScoped(tx Queryable, guildID int64) interfaces.InteractionRepository {
	return &interactionRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Record appends an activity event
func (r *interactionRepository) Record(ctx context.Context, record *entities.InteractionRecord) error {
	query := `
		INSERT INTO interactions (guild_id, discord_id, kind, message_id, channel_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	record.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		record.DiscordID,
		record.Kind,
		record.MessageID,
		record.ChannelID,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

// CountByUserAndRange groups the user's events by kind over [from, to)
func (r *interactionRepository) CountByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (entities.ActivityCounts, error) {
	query := `
		SELECT kind, COUNT(*)
		FROM interactions
		WHERE guild_id = $1 AND discord_id = $2 AND created_at >= $3 AND created_at < $4
		GROUP BY kind
	`
	rows, err := r.q.Query(ctx, query, r.guildID, discordID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	defer rows.Close()

	counts := make(entities.ActivityCounts)
	for rows.Next() {
		var kind entities.InteractionKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan interaction count: %w", err)
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interaction counts: %w", err)
	}
	return counts, nil
}

// RecordVoiceSession appends a voice session record
func (r *interactionRepository) RecordVoiceSession(ctx context.Context, session *entities.VoiceSession) error {
	query := `
		INSERT INTO voice_sessions (guild_id, discord_id, seconds, streaming, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	session.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		session.DiscordID,
		session.Seconds,
		session.Streaming,
		session.JoinedAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record voice session: %w", err)
	}
	return nil
}

// VoiceTotalsByUserAndRange aggregates voice and streaming time over [from, to)
func (r *interactionRepository) VoiceTotalsByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (*entities.VoiceTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN NOT streaming THEN seconds ELSE 0 END), 0),
			COUNT(CASE WHEN NOT streaming THEN 1 END),
			COALESCE(SUM(CASE WHEN streaming THEN seconds ELSE 0 END), 0),
			COUNT(CASE WHEN streaming THEN 1 END)
		FROM voice_sessions
		WHERE guild_id = $1 AND discord_id = $2 AND joined_at >= $3 AND joined_at < $4
	`
	var totals entities.VoiceTotals
	err := r.q.QueryRow(ctx, query, r.guildID, discordID, from, to).Scan(
		&totals.VCSeconds,
		&totals.VCSessions,
		&totals.StreamingSeconds,
		&totals.StreamingSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get voice totals: %w", err)
	}
	return &totals, nil
}
