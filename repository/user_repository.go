package repository

import (
	"context"
	"fmt"

	"bsebot/database"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	q       Queryable
	guildID int64
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) interfaces.UserRepository {
	return &userRepository{q: db.Pool}
}

// NewUserRepositoryScoped creates a new user repository with a transaction and guild scope
func NewUserRepositoryScoped(tx Queryable, guildID int64) interfaces.UserRepository {
	return &userRepository{
		q:       tx,
		guildID: guildID,
	}
}

const userColumns = `
	u.discord_id,
	u.guild_id,
	u.username,
	u.points,
	u.high_score,
	u.daily_minimum,
	u.supporter_type,
	u.king,
	u.inactive,
	u.created_at,
	u.updated_at,
	COALESCE(
		(SELECT SUM(bs.amount)
		 FROM bet_stakes bs
		 JOIN bets b ON b.id = bs.bet_id
		 WHERE bs.discord_id = u.discord_id
		   AND b.guild_id = u.guild_id
		   AND b.result IS NULL),
		0
	) AS pending_points`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.DiscordID,
		&user.GuildID,
		&user.Username,
		&user.Points,
		&user.HighScore,
		&user.DailyMinimum,
		&user.SupporterType,
		&user.King,
		&user.Inactive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.PendingPoints,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByDiscordID retrieves a user by their Discord ID in the current guild.
// Pending points are recomputed from open stakes on every read.
func (r *userRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE u.discord_id = $1 AND u.guild_id = $2
	`, userColumns)

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return user, nil
}

// Create creates a new user with the starting balance in the current guild
func (r *userRepository) Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*entities.User, error) {
	query := `
		INSERT INTO users (guild_id, discord_id, username, points, high_score)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING daily_minimum, created_at, updated_at
	`

	user := &entities.User{
		DiscordID:     discordID,
		GuildID:       r.guildID,
		Username:      username,
		Points:        startingBalance,
		HighScore:     startingBalance,
		SupporterType: entities.SupporterTypeNeutral,
	}
	err := r.q.QueryRow(ctx, query, r.guildID, discordID, username, startingBalance).Scan(
		&user.DailyMinimum,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return user, nil
}

// UpdateBalance sets a user's balance, raising the high score when exceeded
func (r *userRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	query := `
		UPDATE users
		SET points = $1, high_score = GREATEST(high_score, $1), updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3
	`
	result, err := r.q.Exec(ctx, query, newBalance, discordID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d in guild %d: %w", discordID, r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found in guild %d", discordID, r.guildID)
	}
	return nil
}

// UpdateDailyMinimum sets the user's decaying salary floor
func (r *userRepository) UpdateDailyMinimum(ctx context.Context, discordID int64, minimum int64) error {
	query := `
		UPDATE users
		SET daily_minimum = $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3
	`
	result, err := r.q.Exec(ctx, query, minimum, discordID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update daily minimum for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found in guild %d", discordID, r.guildID)
	}
	return nil
}

func (r *userRepository) SetSupporterType(ctx context.Context, discordID int64, supporterType entities.SupporterType) error {
	query := `
		UPDATE users
		SET supporter_type = $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3
	`
	if _, err := r.q.Exec(ctx, query, supporterType, discordID, r.guildID); err != nil {
		return fmt.Errorf("failed to set supporter type for user %d: %w", discordID, err)
	}
	return nil
}

func (r *userRepository) SetKing(ctx context.Context, discordID int64, king bool) error {
	query := `
		UPDATE users
		SET king = $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3
	`
	if _, err := r.q.Exec(ctx, query, king, discordID, r.guildID); err != nil {
		return fmt.Errorf("failed to set king flag for user %d: %w", discordID, err)
	}
	return nil
}

// SetInactive marks a user who left the guild. Users are never deleted.
func (r *userRepository) SetInactive(ctx context.Context, discordID int64, inactive bool) error {
	query := `
		UPDATE users
		SET inactive = $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3
	`
	if _, err := r.q.Exec(ctx, query, inactive, discordID, r.guildID); err != nil {
		return fmt.Errorf("failed to set inactive flag for user %d: %w", discordID, err)
	}
	return nil
}

func (r *userRepository) getMany(ctx context.Context, query string, args ...any) ([]*entities.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// GetAll returns all users in the current guild
func (r *userRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE u.guild_id = $1
		ORDER BY u.points DESC
	`, userColumns)
	return r.getMany(ctx, query, r.guildID)
}

// GetActive returns users not marked inactive
func (r *userRepository) GetActive(ctx context.Context) ([]*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE u.guild_id = $1 AND NOT u.inactive
		ORDER BY u.points DESC
	`, userColumns)
	return r.getMany(ctx, query, r.guildID)
}
