package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type betRepository struct {
	q       Queryable
	guildID int64
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) interfaces.BetRepository {
	return &betRepository{q: db.Pool}
}

// NewBetRepositoryScoped creates a new bet repository with a transaction and guild scope
func NewBetRepositoryScoped(tx Queryable, guildID int64) interfaces.BetRepository {
	return &betRepository{
		q:       tx,
		guildID: guildID,
	}
}

// nextBetID atomically allocates the next per-guild sequence value
func (r *betRepository) nextBetID(ctx context.Context) (string, error) {
	query := `
		INSERT INTO bet_counters (guild_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (guild_id) DO UPDATE SET last_value = bet_counters.last_value + 1
		RETURNING last_value
	`
	var value int64
	if err := r.q.QueryRow(ctx, query, r.guildID).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to allocate bet ID for guild %d: %w", r.guildID, err)
	}
	return fmt.Sprintf("%03d", value), nil
}

// Create allocates the next sequential bet ID and inserts the bet with its options
func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	betID, err := r.nextBetID(ctx)
	if err != nil {
		return err
	}
	bet.BetID = betID
	bet.GuildID = r.guildID

	query := `
		INSERT INTO bets (guild_id, bet_id, creator_discord_id, title, private, channel_id, message_id, active, timeout_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = r.q.QueryRow(ctx, query,
		r.guildID,
		bet.BetID,
		bet.CreatorID,
		bet.Title,
		bet.Private,
		bet.ChannelID,
		bet.MessageID,
		bet.Active,
		bet.TimeoutAt,
	).Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	optionQuery := `
		INSERT INTO bet_options (bet_id, emoji, label)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, opt := range bet.Options {
		opt.BetID = bet.ID
		if err := r.q.QueryRow(ctx, optionQuery, bet.ID, opt.Emoji, opt.Label).Scan(&opt.ID); err != nil {
			return fmt.Errorf("failed to create bet option %s: %w", opt.Emoji, err)
		}
	}

	return nil
}

func (r *betRepository) scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.BetID,
		&bet.GuildID,
		&bet.CreatorID,
		&bet.Title,
		&bet.Private,
		&bet.ChannelID,
		&bet.MessageID,
		&bet.Active,
		&bet.TimeoutAt,
		&bet.Result,
		&bet.ClosedAt,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

const betColumns = `id, bet_id, guild_id, creator_discord_id, title, private, channel_id, message_id, active, timeout_at, result, closed_at, created_at`

// loadDetails populates options and stakes for the given bets
func (r *betRepository) loadDetails(ctx context.Context, bets []*entities.Bet) error {
	for _, bet := range bets {
		optRows, err := r.q.Query(ctx, `
			SELECT id, bet_id, emoji, label
			FROM bet_options
			WHERE bet_id = $1
			ORDER BY id
		`, bet.ID)
		if err != nil {
			return fmt.Errorf("failed to query bet options: %w", err)
		}
		for optRows.Next() {
			var opt entities.BetOption
			if err := optRows.Scan(&opt.ID, &opt.BetID, &opt.Emoji, &opt.Label); err != nil {
				optRows.Close()
				return fmt.Errorf("failed to scan bet option: %w", err)
			}
			bet.Options = append(bet.Options, &opt)
		}
		optRows.Close()
		if err := optRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate bet options: %w", err)
		}

		stakeRows, err := r.q.Query(ctx, `
			SELECT discord_id, emoji, amount, first_bet_at, last_bet_at
			FROM bet_stakes
			WHERE bet_id = $1
			ORDER BY first_bet_at
		`, bet.ID)
		if err != nil {
			return fmt.Errorf("failed to query bet stakes: %w", err)
		}
		for stakeRows.Next() {
			var stake entities.BetStake
			if err := stakeRows.Scan(&stake.DiscordID, &stake.Emoji, &stake.Amount, &stake.FirstBetAt, &stake.LastBetAt); err != nil {
				stakeRows.Close()
				return fmt.Errorf("failed to scan bet stake: %w", err)
			}
			bet.Betters = append(bet.Betters, &stake)
		}
		stakeRows.Close()
		if err := stakeRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate bet stakes: %w", err)
		}
	}
	return nil
}

// GetByBetID returns a bet with options and stakes loaded, or nil
func (r *betRepository) GetByBetID(ctx context.Context, betID string) (*entities.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE guild_id = $1 AND bet_id = $2
	`, betColumns)

	bet, err := r.scanBet(r.q.QueryRow(ctx, query, r.guildID, betID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", betID, err)
	}

	if err := r.loadDetails(ctx, []*entities.Bet{bet}); err != nil {
		return nil, err
	}
	return bet, nil
}

func (r *betRepository) getMany(ctx context.Context, query string, args ...any) ([]*entities.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		bet, err := r.scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	if err := r.loadDetails(ctx, bets); err != nil {
		return nil, err
	}
	return bets, nil
}

// GetActive returns bets still accepting stakes
func (r *betRepository) GetActive(ctx context.Context) ([]*entities.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE guild_id = $1 AND active
		ORDER BY created_at
	`, betColumns)
	return r.getMany(ctx, query, r.guildID)
}

// GetPendingForUser returns unresolved bets where the user holds a stake
func (r *betRepository) GetPendingForUser(ctx context.Context, discordID int64) ([]*entities.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE guild_id = $1
		  AND result IS NULL
		  AND id IN (SELECT bet_id FROM bet_stakes WHERE discord_id = $2)
		ORDER BY created_at
	`, betColumns)
	return r.getMany(ctx, query, r.guildID, discordID)
}

// GetExpiredActive returns active bets past their timeout
func (r *betRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*entities.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE guild_id = $1 AND active AND timeout_at <= $2
		ORDER BY timeout_at
	`, betColumns)
	return r.getMany(ctx, query, r.guildID, now)
}

// UpsertStake inserts a stake or adds to an existing one. Stacking is
// additive, never replacing.
func (r *betRepository) UpsertStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) error {
	query := `
		INSERT INTO bet_stakes (bet_id, discord_id, emoji, amount)
		SELECT b.id, $3, $4, $5
		FROM bets b
		WHERE b.guild_id = $1 AND b.bet_id = $2
		ON CONFLICT (bet_id, discord_id)
		DO UPDATE SET amount = bet_stakes.amount + EXCLUDED.amount, last_bet_at = NOW()
	`
	result, err := r.q.Exec(ctx, query, r.guildID, betID, discordID, emoji, amount)
	if err != nil {
		return fmt.Errorf("failed to upsert stake on bet %s: %w", betID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %s not found in guild %d", betID, r.guildID)
	}
	return nil
}

// Close stops the bet accepting stakes without declaring a result
func (r *betRepository) Close(ctx context.Context, betID string) error {
	query := `
		UPDATE bets
		SET active = FALSE
		WHERE guild_id = $1 AND bet_id = $2
	`
	result, err := r.q.Exec(ctx, query, r.guildID, betID)
	if err != nil {
		return fmt.Errorf("failed to close bet %s: %w", betID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %s not found in guild %d", betID, r.guildID)
	}
	return nil
}

// Resolve persists the result, winners and close timestamp. The result IS
// NULL guard makes this a one-shot operation: a second call affects no rows
// and reports entities.ErrBetAlreadyResolved.
func (r *betRepository) Resolve(ctx context.Context, betID string, result []string, winners map[int64]int64, closedAt time.Time) error {
	winnersJSON, err := json.Marshal(encodeWinners(winners))
	if err != nil {
		return fmt.Errorf("failed to encode winners: %w", err)
	}

	query := `
		UPDATE bets
		SET active = FALSE, result = $3, winners = $4, closed_at = $5
		WHERE guild_id = $1 AND bet_id = $2 AND result IS NULL
	`
	tag, err := r.q.Exec(ctx, query, r.guildID, betID, result, winnersJSON, closedAt)
	if err != nil {
		return fmt.Errorf("failed to resolve bet %s: %w", betID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrBetAlreadyResolved
	}
	return nil
}

func (r *betRepository) UpdateMessageRef(ctx context.Context, betID string, messageID, channelID int64) error {
	query := `
		UPDATE bets
		SET message_id = $3, channel_id = $4
		WHERE guild_id = $1 AND bet_id = $2
	`
	if _, err := r.q.Exec(ctx, query, r.guildID, betID, messageID, channelID); err != nil {
		return fmt.Errorf("failed to update message ref for bet %s: %w", betID, err)
	}
	return nil
}

// encodeWinners maps int64 keys to strings for JSON storage
func encodeWinners(winners map[int64]int64) map[string]int64 {
	out := make(map[string]int64, len(winners))
	for id, amount := range winners {
		out[strconv.FormatInt(id, 10)] = amount
	}
	return out
}
