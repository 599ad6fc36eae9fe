package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordleAttempt_Solved(t *testing.T) {
	assert.True(t, (&WordleAttempt{Guesses: 4, MaxGuesses: 6}).Solved())
	assert.False(t, (&WordleAttempt{Guesses: WordleFailedGuesses, MaxGuesses: 6}).Solved())
	assert.False(t, (&WordleAttempt{Guesses: 7, MaxGuesses: 6}).Solved())
}

func TestBestWordleGuesses(t *testing.T) {
	t.Run("lowest real score wins", func(t *testing.T) {
		attempts := []*WordleAttempt{
			{Guesses: 5},
			{Guesses: 3},
			{Guesses: 6},
		}
		assert.Equal(t, 3, BestWordleGuesses(attempts))
	})

	t.Run("failed placeholders are ignored", func(t *testing.T) {
		attempts := []*WordleAttempt{
			{Guesses: WordleFailedGuesses},
			{Guesses: 4},
		}
		assert.Equal(t, 4, BestWordleGuesses(attempts))
	})

	t.Run("no real scores", func(t *testing.T) {
		attempts := []*WordleAttempt{{Guesses: WordleFailedGuesses}}
		assert.Zero(t, BestWordleGuesses(attempts))
		assert.Zero(t, BestWordleGuesses(nil))
	})
}
