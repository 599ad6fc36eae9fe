package entities

import (
	"errors"
	"time"
)

// RevolutionSwing is the chance adjustment a single faction pledge contributes
const RevolutionSwing = 15

var (
	// ErrKingCannotVote rejects faction votes from the sitting King
	ErrKingCannotVote = errors.New("the King cannot vote on their own overthrow")
	// ErrPledgeLocked rejects faction changes from users who pledged before the event
	ErrPledgeLocked = errors.New("your pledge is locked for this revolution")
	// ErrAlreadyInFaction rejects votes that would not change anything
	ErrAlreadyInFaction = errors.New("you are already in that faction")
	// ErrEventClosed rejects any action on a closed or expired event
	ErrEventClosed = errors.New("the revolution has ended")
	// ErrEventNotExpired rejects resolution before the voting window ends
	ErrEventNotExpired = errors.New("the revolution has not expired yet")
	// ErrNotTheKing rejects SAVE THYSELF presses from anyone but the King
	ErrNotTheKing = errors.New("only the King may save themselves")
	// ErrAlreadyPledged rejects a second pledge before the same event
	ErrAlreadyPledged = errors.New("you have already pledged for the coming revolution")
	// ErrRevolutionUnderway rejects pledges once the event is open
	ErrRevolutionUnderway = errors.New("the revolution is already underway")
	// ErrInvalidPledgeSide rejects pledges for anything but the two sides
	ErrInvalidPledgeSide = errors.New("a pledge is either overthrow or support")
)

// PledgeSide is the faction a user commits to ahead of the event
type PledgeSide string

const (
	PledgeOverthrow PledgeSide = "overthrow"
	PledgeSupport   PledgeSide = "support"
)

// RevolutionPledge is a faction commitment made before the event opens.
// Pledged users join their faction when the event starts and cannot change
// sides for its duration.
type RevolutionPledge struct {
	GuildID   int64      `db:"guild_id"`
	DiscordID int64      `db:"discord_id"`
	Side      PledgeSide `db:"side"`
	CreatedAt time.Time  `db:"created_at"`
}

// RevolutionEvent is the weekly support/overthrow vote against the King.
// A guild has at most one open event at a time.
type RevolutionEvent struct {
	ID              int64      `db:"id"`
	GuildID         int64      `db:"guild_id"`
	KingID          int64      `db:"king_discord_id"`
	Chance          int        `db:"chance"`
	Supporters      []int64    `db:"supporters"`
	Revolutionaries []int64    `db:"revolutionaries"`
	Neutrals        []int64    `db:"neutrals"`
	Locked          []int64    `db:"locked"`
	Participants    []int64    `db:"participants"`
	TimesSaved      int        `db:"times_saved"`
	Open            bool       `db:"open"`
	Success         *bool      `db:"success"`
	ExpiresAt       time.Time  `db:"expires_at"`
	MessageID       int64      `db:"message_id"`
	ChannelID       int64      `db:"channel_id"`
	CreatedAt       time.Time  `db:"created_at"`
	ClosedAt        *time.Time `db:"closed_at"`
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// IsOpen reports whether the event still accepts actions at the given time
func (e *RevolutionEvent) IsOpen(now time.Time) bool {
	return e.Open && now.Before(e.ExpiresAt)
}

// IsRevolutionary reports whether the user has pledged to overthrow
func (e *RevolutionEvent) IsRevolutionary(userID int64) bool {
	return contains(e.Revolutionaries, userID)
}

// IsSupporter reports whether the user has pledged to support the King
func (e *RevolutionEvent) IsSupporter(userID int64) bool {
	return contains(e.Supporters, userID)
}

// leave removes the user from whichever faction they hold and reverses
// that faction's chance contribution.
func (e *RevolutionEvent) leave(userID int64) {
	if contains(e.Revolutionaries, userID) {
		e.Revolutionaries = remove(e.Revolutionaries, userID)
		e.Chance -= RevolutionSwing
	}
	if contains(e.Supporters, userID) {
		e.Supporters = remove(e.Supporters, userID)
		e.Chance += RevolutionSwing
	}
	e.Neutrals = remove(e.Neutrals, userID)
}

func (e *RevolutionEvent) track(userID int64) {
	if !contains(e.Participants, userID) {
		e.Participants = append(e.Participants, userID)
	}
}

// SeedPledges folds pre-event pledges into the factions, applying each side's
// chance contribution and locking every pledged user in place. A pledge from
// the sitting King is ignored.
func (e *RevolutionEvent) SeedPledges(pledges []*RevolutionPledge) {
	for _, p := range pledges {
		if p.DiscordID == e.KingID {
			continue
		}
		switch p.Side {
		case PledgeOverthrow:
			e.Revolutionaries = append(e.Revolutionaries, p.DiscordID)
			e.Chance += RevolutionSwing
		case PledgeSupport:
			e.Supporters = append(e.Supporters, p.DiscordID)
			e.Chance -= RevolutionSwing
		default:
			continue
		}
		e.Locked = append(e.Locked, p.DiscordID)
		e.track(p.DiscordID)
	}
}

func (e *RevolutionEvent) validateVote(userID int64, now time.Time) error {
	if !e.IsOpen(now) {
		return ErrEventClosed
	}
	if userID == e.KingID {
		return ErrKingCannotVote
	}
	if contains(e.Locked, userID) {
		return ErrPledgeLocked
	}
	return nil
}

// Overthrow moves the user into the revolutionary faction (+swing to chance)
func (e *RevolutionEvent) Overthrow(userID int64, now time.Time) error {
	if err := e.validateVote(userID, now); err != nil {
		return err
	}
	if contains(e.Revolutionaries, userID) {
		return ErrAlreadyInFaction
	}
	e.leave(userID)
	e.Revolutionaries = append(e.Revolutionaries, userID)
	e.Chance += RevolutionSwing
	e.track(userID)
	return nil
}

// Support moves the user into the supporter faction (-swing to chance)
func (e *RevolutionEvent) Support(userID int64, now time.Time) error {
	if err := e.validateVote(userID, now); err != nil {
		return err
	}
	if contains(e.Supporters, userID) {
		return ErrAlreadyInFaction
	}
	e.leave(userID)
	e.Supporters = append(e.Supporters, userID)
	e.Chance -= RevolutionSwing
	e.track(userID)
	return nil
}

// Impartial moves the user to neutral, reversing any prior faction contribution
func (e *RevolutionEvent) Impartial(userID int64, now time.Time) error {
	if err := e.validateVote(userID, now); err != nil {
		return err
	}
	if contains(e.Neutrals, userID) {
		return ErrAlreadyInFaction
	}
	e.leave(userID)
	e.Neutrals = append(e.Neutrals, userID)
	e.track(userID)
	return nil
}

// KingSave applies the SAVE THYSELF chance reduction. The balance deduction
// happens in the service layer; this only mutates event state. Allowed
// regardless of faction or lock state, but only for the King.
func (e *RevolutionEvent) KingSave(userID int64, now time.Time) error {
	if !e.IsOpen(now) {
		return ErrEventClosed
	}
	if userID != e.KingID {
		return ErrNotTheKing
	}
	e.Chance -= RevolutionSwing
	e.TimesSaved++
	return nil
}

// CloseOut marks the event terminal with the given outcome
func (e *RevolutionEvent) CloseOut(success bool, now time.Time) {
	e.Open = false
	e.Success = &success
	e.ClosedAt = &now
}
