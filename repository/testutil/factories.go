package testutil

import (
	"time"

	"bsebot/domain/entities"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(discordID int64, username string) *entities.User {
	now := time.Now()
	return &entities.User{
		DiscordID:    discordID,
		Username:     username,
		Points:       1000,
		HighScore:    1000,
		DailyMinimum: 4,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestUserWithPoints creates a test user with a specific balance
func CreateTestUserWithPoints(discordID int64, username string, points int64) *entities.User {
	user := CreateTestUser(discordID, username)
	user.Points = points
	user.HighScore = points
	return user
}

// CreateTestBalanceHistory creates a test ledger entry
func CreateTestBalanceHistory(discordID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBet creates an open two-option bet
func CreateTestBet(creatorID int64, title string) *entities.Bet {
	return &entities.Bet{
		CreatorID: creatorID,
		Title:     title,
		Active:    true,
		TimeoutAt: time.Now().Add(24 * time.Hour),
		Options: []*entities.BetOption{
			{Emoji: "1️⃣", Label: "Yes"},
			{Emoji: "2️⃣", Label: "No"},
		},
	}
}

// CreateTestWordleAttempt creates a solved attempt for the given day
func CreateTestWordleAttempt(discordID int64, day time.Time, guesses int) *entities.WordleAttempt {
	return &entities.WordleAttempt{
		DiscordID:  discordID,
		Puzzle:     1234,
		Guesses:    guesses,
		MaxGuesses: 6,
		Day:        day,
	}
}

// CreateTestRevolutionEvent creates an open event for the given King
func CreateTestRevolutionEvent(kingID int64, chance int) *entities.RevolutionEvent {
	return &entities.RevolutionEvent{
		KingID:    kingID,
		Chance:    chance,
		Open:      true,
		ExpiresAt: time.Now().Add(4 * time.Hour),
	}
}
