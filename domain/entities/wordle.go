package entities

import "time"

// WordleFailedGuesses is the placeholder score stored for a failed puzzle
// (X/6) and for the bot on days it produced no real score.
const WordleFailedGuesses = 100

// WordleBestBonus is the extra salary credit for posting the day's best score
const WordleBestBonus = 5

// WordleParticipationCredit is the flat salary credit for posting any result
const WordleParticipationCredit = 2

// WordleAttempt records one user's Wordle result for a calendar day
type WordleAttempt struct {
	ID         int64     `db:"id"`
	GuildID    int64     `db:"guild_id"`
	DiscordID  int64     `db:"discord_id"`
	Puzzle     int       `db:"puzzle"`
	Guesses    int       `db:"guesses"`
	MaxGuesses int       `db:"max_guesses"`
	Day        time.Time `db:"day"`
	CreatedAt  time.Time `db:"created_at"`
}

// Solved reports whether the puzzle was completed within the allowed guesses
func (w *WordleAttempt) Solved() bool {
	return w.Guesses < WordleFailedGuesses && w.Guesses <= w.MaxGuesses
}

// BestWordleGuesses returns the lowest real guess count among the attempts.
// Placeholder scores are excluded. Returns 0 when no real score exists.
func BestWordleGuesses(attempts []*WordleAttempt) int {
	best := 0
	for _, a := range attempts {
		if a.Guesses >= WordleFailedGuesses {
			continue
		}
		if best == 0 || a.Guesses < best {
			best = a.Guesses
		}
	}
	return best
}
