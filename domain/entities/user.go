package entities

import (
	"errors"
	"time"
)

// SupporterType determines which tax rate applies to a user
type SupporterType string

const (
	SupporterTypeNeutral   SupporterType = "neutral"
	SupporterTypeSupporter SupporterType = "supporter"
)

// User represents a Discord user's guild-scoped eddies account
type User struct {
	DiscordID     int64         `db:"discord_id"`
	GuildID       int64         `db:"guild_id"`
	Username      string        `db:"username"`
	Points        int64         `db:"points"`
	PendingPoints int64         `db:"-"` // Sum of stakes on open bets, recomputed on read
	HighScore     int64         `db:"high_score"`
	DailyMinimum  int64         `db:"daily_minimum"`
	SupporterType SupporterType `db:"supporter_type"`
	King          bool          `db:"king"`
	Inactive      bool          `db:"inactive"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// CanAfford checks if the user has sufficient balance for an amount. Stakes
// are debited when placed, so the full balance is spendable.
func (u *User) CanAfford(amount int64) bool {
	return u.Points >= amount
}

// ValidateSpend checks that a user-initiated spend is positive and affordable
func (u *User) ValidateSpend(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !u.CanAfford(amount) {
		return errors.New("insufficient eddies")
	}
	return nil
}

// IsSupporter reports whether the user qualifies for the supporter tax rate
func (u *User) IsSupporter() bool {
	return u.SupporterType == SupporterTypeSupporter
}

// CalculateNewBalance calculates what the balance would be after a change
func (u *User) CalculateNewBalance(changeAmount int64) int64 {
	return u.Points + changeAmount
}

// NewHighScore returns the high score after applying a balance change.
// High score never decreases.
func (u *User) NewHighScore(newBalance int64) int64 {
	if newBalance > u.HighScore {
		return newBalance
	}
	return u.HighScore
}
