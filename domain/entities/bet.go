package entities

import (
	"errors"
	"time"
)

var (
	// ErrBetAlreadyResolved is returned when a resolved bet is resolved again
	ErrBetAlreadyResolved = errors.New("bet has already been resolved")
	// ErrBetNotAcceptingStakes is returned when a stake arrives after close
	ErrBetNotAcceptingStakes = errors.New("bet is no longer accepting stakes")
	// ErrInvalidOption is returned when a stake names an emoji that is not an option
	ErrInvalidOption = errors.New("chosen option is not part of this bet")
)

// Bet represents a prediction-market style bet with emoji options
type Bet struct {
	ID        int64      `db:"id"`
	BetID     string     `db:"bet_id"` // Zero-padded per-guild sequence, e.g. "007"
	GuildID   int64      `db:"guild_id"`
	CreatorID int64      `db:"creator_discord_id"`
	Title     string     `db:"title"`
	Private   bool       `db:"private"`
	ChannelID int64      `db:"channel_id"`
	MessageID int64      `db:"message_id"`
	Active    bool       `db:"active"`
	TimeoutAt time.Time  `db:"timeout_at"`
	Result    []string   `db:"result"` // Winning emojis, nil until resolved
	ClosedAt  *time.Time `db:"closed_at"`
	CreatedAt time.Time  `db:"created_at"`

	Options []*BetOption
	Betters []*BetStake
}

// BetOption maps an emoji to a human-readable outcome label
type BetOption struct {
	ID    int64  `db:"id"`
	BetID int64  `db:"bet_id"`
	Emoji string `db:"emoji"`
	Label string `db:"label"`
}

// BetStake is a single better's accumulated position on a bet
type BetStake struct {
	DiscordID  int64     `db:"discord_id"`
	Emoji      string    `db:"emoji"`
	Amount     int64     `db:"amount"`
	FirstBetAt time.Time `db:"first_bet_at"`
	LastBetAt  time.Time `db:"last_bet_at"`
}

// BetCloseSummary is the outcome of resolving a bet
type BetCloseSummary struct {
	BetID        string
	Title        string
	Result       []string
	OutcomeNames []string
	ClosedAt     time.Time
	Winners      map[int64]int64 // user -> amount credited (after tax)
	Losers       map[int64]int64 // user -> stake lost
	TaxCollected int64
}

// HasOption reports whether the emoji is one of the bet's options
func (b *Bet) HasOption(emoji string) bool {
	for _, opt := range b.Options {
		if opt.Emoji == emoji {
			return true
		}
	}
	return false
}

// OptionLabel returns the human label for an option emoji
func (b *Bet) OptionLabel(emoji string) string {
	for _, opt := range b.Options {
		if opt.Emoji == emoji {
			return opt.Label
		}
	}
	return emoji
}

// StakeFor returns the user's stake on this bet, or nil
func (b *Bet) StakeFor(discordID int64) *BetStake {
	for _, s := range b.Betters {
		if s.DiscordID == discordID {
			return s
		}
	}
	return nil
}

// TotalStaked returns the sum staked across all betters
func (b *Bet) TotalStaked() int64 {
	var total int64
	for _, s := range b.Betters {
		total += s.Amount
	}
	return total
}

// StakedOn returns the sum staked on the given option emojis
func (b *Bet) StakedOn(emojis []string) int64 {
	set := make(map[string]bool, len(emojis))
	for _, e := range emojis {
		set[e] = true
	}
	var total int64
	for _, s := range b.Betters {
		if set[s.Emoji] {
			total += s.Amount
		}
	}
	return total
}

// OptionsWithStakes returns the count of distinct options holding at least one stake
func (b *Bet) OptionsWithStakes() int {
	seen := make(map[string]bool)
	for _, s := range b.Betters {
		seen[s.Emoji] = true
	}
	return len(seen)
}

// IsResolved reports whether a result has been declared
func (b *Bet) IsResolved() bool {
	return len(b.Result) > 0
}

// AcceptingStakes reports whether new stakes may still be placed
func (b *Bet) AcceptingStakes() bool {
	return b.Active && !b.IsResolved()
}

// IsExpired reports whether the bet has passed its timeout
func (b *Bet) IsExpired(now time.Time) bool {
	return now.After(b.TimeoutAt)
}

// ValidateStake checks that a stake targets a valid option on an open bet
func (b *Bet) ValidateStake(discordID int64, emoji string, amount int64) error {
	if !b.AcceptingStakes() {
		return ErrBetNotAcceptingStakes
	}
	if !b.HasOption(emoji) {
		return ErrInvalidOption
	}
	if amount <= 0 {
		return errors.New("stake amount must be positive")
	}
	// A repeat stake must stay on the originally chosen option
	if existing := b.StakeFor(discordID); existing != nil && existing.Emoji != emoji {
		return errors.New("stake must match previously chosen option")
	}
	return nil
}
