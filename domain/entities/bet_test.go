package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoOptionBet() *Bet {
	return &Bet{
		ID:        1,
		BetID:     "001",
		Active:    true,
		TimeoutAt: time.Now().Add(time.Hour),
		Options: []*BetOption{
			{Emoji: "1️⃣", Label: "Yes"},
			{Emoji: "2️⃣", Label: "No"},
		},
	}
}

func TestBet_ValidateStake(t *testing.T) {
	t.Run("valid first stake", func(t *testing.T) {
		bet := twoOptionBet()
		assert.NoError(t, bet.ValidateStake(1, "1️⃣", 100))
	})

	t.Run("closed bet", func(t *testing.T) {
		bet := twoOptionBet()
		bet.Active = false
		assert.ErrorIs(t, bet.ValidateStake(1, "1️⃣", 100), ErrBetNotAcceptingStakes)
	})

	t.Run("resolved bet", func(t *testing.T) {
		bet := twoOptionBet()
		bet.Result = []string{"1️⃣"}
		assert.ErrorIs(t, bet.ValidateStake(1, "1️⃣", 100), ErrBetNotAcceptingStakes)
	})

	t.Run("unknown option", func(t *testing.T) {
		bet := twoOptionBet()
		assert.ErrorIs(t, bet.ValidateStake(1, "5️⃣", 100), ErrInvalidOption)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		bet := twoOptionBet()
		assert.Error(t, bet.ValidateStake(1, "1️⃣", 0))
		assert.Error(t, bet.ValidateStake(1, "1️⃣", -5))
	})

	t.Run("stacking stays on the chosen option", func(t *testing.T) {
		bet := twoOptionBet()
		bet.Betters = []*BetStake{{DiscordID: 1, Emoji: "1️⃣", Amount: 100}}

		assert.NoError(t, bet.ValidateStake(1, "1️⃣", 50))
		require.Error(t, bet.ValidateStake(1, "2️⃣", 50))
	})
}

func TestBet_PoolAccounting(t *testing.T) {
	bet := twoOptionBet()
	bet.Betters = []*BetStake{
		{DiscordID: 1, Emoji: "1️⃣", Amount: 100},
		{DiscordID: 2, Emoji: "2️⃣", Amount: 200},
		{DiscordID: 3, Emoji: "2️⃣", Amount: 300},
	}

	assert.Equal(t, int64(600), bet.TotalStaked())
	assert.Equal(t, int64(100), bet.StakedOn([]string{"1️⃣"}))
	assert.Equal(t, int64(500), bet.StakedOn([]string{"2️⃣"}))
	assert.Equal(t, int64(600), bet.StakedOn([]string{"1️⃣", "2️⃣"}))
	assert.Equal(t, 2, bet.OptionsWithStakes())

	require.NotNil(t, bet.StakeFor(2))
	assert.Nil(t, bet.StakeFor(9))
}

func TestBet_Lifecycle(t *testing.T) {
	bet := twoOptionBet()
	assert.True(t, bet.AcceptingStakes())
	assert.False(t, bet.IsResolved())
	assert.False(t, bet.IsExpired(time.Now()))

	bet.Result = []string{"1️⃣"}
	assert.True(t, bet.IsResolved())
	assert.False(t, bet.AcceptingStakes())

	assert.True(t, bet.IsExpired(bet.TimeoutAt.Add(time.Minute)))
	assert.Equal(t, "Yes", bet.OptionLabel("1️⃣"))
	assert.Equal(t, "❓", bet.OptionLabel("❓"))
}
