package interfaces

import (
	"context"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/events"
)

// UserRepository manages guild-scoped user accounts
type UserRepository interface {
	// GetByDiscordID returns the user, or nil if they do not exist
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error)
	// Create inserts a new user with the starting balance
	Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*entities.User, error)
	// UpdateBalance sets the balance and raises the high score if exceeded
	UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error
	// UpdateDailyMinimum sets the decaying salary floor
	UpdateDailyMinimum(ctx context.Context, discordID int64, minimum int64) error
	SetSupporterType(ctx context.Context, discordID int64, supporterType entities.SupporterType) error
	SetKing(ctx context.Context, discordID int64, king bool) error
	SetInactive(ctx context.Context, discordID int64, inactive bool) error
	GetAll(ctx context.Context) ([]*entities.User, error)
	// GetActive returns users not marked inactive
	GetActive(ctx context.Context) ([]*entities.User, error)
}

// BetRepository manages bets, their options and stakes
type BetRepository interface {
	// Create allocates the next sequential bet ID for the guild and inserts
	// the bet with its options
	Create(ctx context.Context, bet *entities.Bet) error
	// GetByBetID returns a bet with options and stakes loaded, or nil
	GetByBetID(ctx context.Context, betID string) (*entities.Bet, error)
	GetActive(ctx context.Context) ([]*entities.Bet, error)
	// GetPendingForUser returns unresolved bets where the user holds a stake
	GetPendingForUser(ctx context.Context, discordID int64) ([]*entities.Bet, error)
	// UpsertStake inserts a stake or adds to an existing one (stacking is additive)
	UpsertStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) error
	// Close stops the bet accepting stakes without declaring a result
	Close(ctx context.Context, betID string) error
	// Resolve persists the result, winners and close timestamp. Guarded so a
	// bet can only be resolved once; returns entities.ErrBetAlreadyResolved
	// on a repeat call.
	Resolve(ctx context.Context, betID string, result []string, winners map[int64]int64, closedAt time.Time) error
	// GetExpiredActive returns active bets past their timeout
	GetExpiredActive(ctx context.Context, now time.Time) ([]*entities.Bet, error)
	UpdateMessageRef(ctx context.Context, betID string, messageID, channelID int64) error
}

// BalanceHistoryRepository records and queries the transaction ledger
type BalanceHistoryRepository interface {
	Record(ctx context.Context, history *entities.BalanceHistory) error
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*entities.BalanceHistory, error)
}

// InteractionRepository records activity events consumed by the salary engine
type InteractionRepository interface {
	Record(ctx context.Context, record *entities.InteractionRecord) error
	// CountByUserAndRange groups the user's events by kind over [from, to)
	CountByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (entities.ActivityCounts, error)
	RecordVoiceSession(ctx context.Context, session *entities.VoiceSession) error
	VoiceTotalsByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (*entities.VoiceTotals, error)
}

// WordleRepository manages daily Wordle attempts
type WordleRepository interface {
	// Upsert inserts or replaces the user's attempt for the day
	Upsert(ctx context.Context, attempt *entities.WordleAttempt) error
	GetByUserAndDay(ctx context.Context, discordID int64, day time.Time) (*entities.WordleAttempt, error)
	// GetByDay returns all attempts for the day, including the bot's
	GetByDay(ctx context.Context, day time.Time) ([]*entities.WordleAttempt, error)
}

// RevolutionRepository manages the guild's revolution events and the pledges
// made ahead of them
type RevolutionRepository interface {
	Create(ctx context.Context, event *entities.RevolutionEvent) error
	// GetOpen returns the guild's open event, or nil
	GetOpen(ctx context.Context) (*entities.RevolutionEvent, error)
	Update(ctx context.Context, event *entities.RevolutionEvent) error
	// CreatePledge records a pre-event commitment, one per user; returns
	// entities.ErrAlreadyPledged on a repeat
	CreatePledge(ctx context.Context, pledge *entities.RevolutionPledge) error
	// GetPledges returns the guild's standing pledges
	GetPledges(ctx context.Context) ([]*entities.RevolutionPledge, error)
	// DeletePledges clears the standing pledges once an event consumes them
	DeletePledges(ctx context.Context) error
}

// SalaryRunRepository records completed nightly runs for idempotence
type SalaryRunRepository interface {
	Record(ctx context.Context, run *entities.SalaryRun) error
	// GetByDay returns the run recorded for the day, or nil
	GetByDay(ctx context.Context, day time.Time) (*entities.SalaryRun, error)
}

// GuildSettingsRepository manages per-guild configuration. Not guild-scoped;
// the worker layer uses it to enumerate guilds.
type GuildSettingsRepository interface {
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error
	ListGuildIDs(ctx context.Context) ([]int64, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// TransactionalEventPublisher buffers events until the enclosing transaction
// commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
