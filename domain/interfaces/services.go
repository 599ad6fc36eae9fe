package interfaces

import (
	"context"
	"time"

	"bsebot/domain/entities"
)

// UserService manages the economy ledger
type UserService interface {
	// GetOrCreateUser fetches the user, creating them with the starting
	// balance (and an initial history entry) on first sight
	GetOrCreateUser(ctx context.Context, discordID int64, username string) (*entities.User, error)
	// ApplyBalanceChange adjusts a balance, updates the high score, records
	// history and publishes a balance-change event
	ApplyBalanceChange(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error)
	// Gift moves eddies between two users; the sender must afford it
	Gift(ctx context.Context, fromID, toID int64, amount int64) error
}

// BetService manages the bet lifecycle and payout
type BetService interface {
	CreateBet(ctx context.Context, creatorID int64, title string, optionEmojis, optionLabels []string, timeoutAt time.Time, private bool, channelID int64) (*entities.Bet, error)
	// PlaceStake validates option and live affordability, records the stake
	// (additive on repeat), then debits the balance
	PlaceStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) (*entities.Bet, error)
	// CloseBet stops the bet accepting stakes, pending a result
	CloseBet(ctx context.Context, betID string) error
	// ResolveBet declares the winning option(s), computes and pays winnings,
	// credits collected tax to the King, and persists the result exactly once
	ResolveBet(ctx context.Context, betID string, winningEmojis []string) (*entities.BetCloseSummary, error)
}

// SalaryService converts daily activity into eddies
type SalaryService interface {
	// CalculateDaily computes one user's salary for the day window. When
	// real is true, daily-minimum mutations are persisted.
	CalculateDaily(ctx context.Context, user *entities.User, day time.Time, real bool) (*entities.SalaryBreakdown, error)
	// RunDaily runs the full guild distribution for the day. When real is
	// true balances are updated and the run is recorded; otherwise it is a
	// preview.
	RunDaily(ctx context.Context, day time.Time, real bool) (*entities.SalaryRunResult, error)
}

// RevolutionService drives the weekly King-overthrow event
type RevolutionService interface {
	// OpenEvent creates the weekly event; requires a seated King. Standing
	// pledges are folded into the factions, locked, and consumed.
	OpenEvent(ctx context.Context, guildID int64, expiresAt time.Time) (*entities.RevolutionEvent, error)
	// Pledge commits the user to a side ahead of the next event; pledged
	// users cannot change sides once it opens
	Pledge(ctx context.Context, guildID, userID int64, side entities.PledgeSide) error
	Overthrow(ctx context.Context, userID int64) (*entities.RevolutionEvent, error)
	Support(ctx context.Context, userID int64) (*entities.RevolutionEvent, error)
	Impartial(ctx context.Context, userID int64) (*entities.RevolutionEvent, error)
	// SaveThyself deducts 10% of the King's balance for a chance reduction
	SaveThyself(ctx context.Context, userID int64) (*entities.RevolutionEvent, error)
	// Resolve closes an expired event, rolling the given value (0-99)
	// against the final chance. On success the crown moves.
	Resolve(ctx context.Context, roll int) (*entities.RevolutionEvent, error)
}

// GuildSettingsService manages per-guild configuration
type GuildSettingsService interface {
	GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)
	UpdateSettings(ctx context.Context, settings *entities.GuildSettings) error
	// SetKing moves the crown, updating both settings and user flags
	SetKing(ctx context.Context, guildID int64, newKingID int64) error
}

// UnitOfWork provides transactional access to guild-scoped repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	BetRepository() BetRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	InteractionRepository() InteractionRepository
	WordleRepository() WordleRepository
	RevolutionRepository() RevolutionRepository
	SalaryRunRepository() SalaryRunRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work scoped to a guild
type UnitOfWorkFactory interface {
	CreateForGuild(guildID int64) UnitOfWork
}
