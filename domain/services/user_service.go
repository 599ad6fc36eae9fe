package services

import (
	"context"
	"fmt"

	"bsebot/config"
	"bsebot/domain/entities"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"
)

type userService struct {
	config             *config.Config
	userRepo           interfaces.UserRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewUserService creates a new user service
func NewUserService(
	userRepo interfaces.UserRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.UserService {
	return &userService{
		config:             config.Get(),
		userRepo:           userRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// GetOrCreateUser fetches a user, creating them on first sight
func (s *userService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*entities.User, error) {
	user, err := s.userRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.Create(ctx, discordID, username, s.config.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	history := &entities.BalanceHistory{
		DiscordID:       discordID,
		GuildID:         user.GuildID,
		BalanceBefore:   0,
		BalanceAfter:    s.config.StartingBalance,
		ChangeAmount:    s.config.StartingBalance,
		TransactionType: entities.TransactionTypeInitial,
	}
	if err := s.balanceHistoryRepo.Record(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	s.eventPublisher.Publish(events.UserCreatedEvent{
		DiscordID:      discordID,
		GuildID:        user.GuildID,
		Username:       username,
		InitialBalance: s.config.StartingBalance,
	})

	return user, nil
}

// ApplyBalanceChange adjusts a user's balance, records history, and publishes
// a balance-change event. A negative amount from a user-initiated spend must
// never drive the balance below zero; callers validate affordability first,
// and this guards the invariant.
func (s *userService) ApplyBalanceChange(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error) {
	user, err := s.userRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", discordID)
	}

	newBalance := user.CalculateNewBalance(amount)
	if newBalance < 0 && !txType.IsCredit() {
		return nil, fmt.Errorf("balance change would leave user %d negative", discordID)
	}

	if err := s.userRepo.UpdateBalance(ctx, discordID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		DiscordID:           discordID,
		GuildID:             user.GuildID,
		BalanceBefore:       user.Points,
		BalanceAfter:        newBalance,
		ChangeAmount:        amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := s.balanceHistoryRepo.Record(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record balance history: %w", err)
	}

	s.eventPublisher.Publish(events.BalanceChangeEvent{
		UserID:          discordID,
		GuildID:         user.GuildID,
		OldBalance:      user.Points,
		NewBalance:      newBalance,
		TransactionType: txType,
		ChangeAmount:    amount,
	})

	updated := *user
	updated.Points = newBalance
	updated.HighScore = user.NewHighScore(newBalance)
	return &updated, nil
}

// Gift moves eddies from one user to another
func (s *userService) Gift(ctx context.Context, fromID, toID int64, amount int64) error {
	if fromID == toID {
		return fmt.Errorf("cannot gift eddies to yourself")
	}

	sender, err := s.userRepo.GetByDiscordID(ctx, fromID)
	if err != nil {
		return fmt.Errorf("failed to get sender: %w", err)
	}
	if sender == nil {
		return fmt.Errorf("sender %d not found", fromID)
	}
	if err := sender.ValidateSpend(amount); err != nil {
		return err
	}

	recipient, err := s.userRepo.GetByDiscordID(ctx, toID)
	if err != nil {
		return fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return fmt.Errorf("recipient %d not found", toID)
	}

	metadata := map[string]any{"counterparty": toID}
	if _, err := s.ApplyBalanceChange(ctx, fromID, -amount, entities.TransactionTypeGiftOut, metadata); err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}

	metadata = map[string]any{"counterparty": fromID}
	if _, err := s.ApplyBalanceChange(ctx, toID, amount, entities.TransactionTypeGiftIn, metadata); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	return nil
}
