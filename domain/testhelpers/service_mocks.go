package testhelpers

import (
	"context"
	"time"

	"bsebot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*entities.User, error) {
	args := m.Called(ctx, discordID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserService) ApplyBalanceChange(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (*entities.User, error) {
	args := m.Called(ctx, discordID, amount, txType, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserService) Gift(ctx context.Context, fromID, toID int64, amount int64) error {
	args := m.Called(ctx, fromID, toID, amount)
	return args.Error(0)
}

// MockBetService is a mock implementation of BetService
type MockBetService struct {
	mock.Mock
}

func (m *MockBetService) CreateBet(ctx context.Context, creatorID int64, title string, optionEmojis, optionLabels []string, timeoutAt time.Time, private bool, channelID int64) (*entities.Bet, error) {
	args := m.Called(ctx, creatorID, title, optionEmojis, optionLabels, timeoutAt, private, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetService) PlaceStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) (*entities.Bet, error) {
	args := m.Called(ctx, betID, discordID, emoji, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetService) CloseBet(ctx context.Context, betID string) error {
	args := m.Called(ctx, betID)
	return args.Error(0)
}

func (m *MockBetService) ResolveBet(ctx context.Context, betID string, winningEmojis []string) (*entities.BetCloseSummary, error) {
	args := m.Called(ctx, betID, winningEmojis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetCloseSummary), args.Error(1)
}

// MockSalaryService is a mock implementation of SalaryService
type MockSalaryService struct {
	mock.Mock
}

func (m *MockSalaryService) CalculateDaily(ctx context.Context, user *entities.User, day time.Time, real bool) (*entities.SalaryBreakdown, error) {
	args := m.Called(ctx, user, day, real)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SalaryBreakdown), args.Error(1)
}

func (m *MockSalaryService) RunDaily(ctx context.Context, day time.Time, real bool) (*entities.SalaryRunResult, error) {
	args := m.Called(ctx, day, real)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SalaryRunResult), args.Error(1)
}

// MockRevolutionService is a mock implementation of RevolutionService
type MockRevolutionService struct {
	mock.Mock
}

func (m *MockRevolutionService) OpenEvent(ctx context.Context, guildID int64, expiresAt time.Time) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, guildID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionService) Pledge(ctx context.Context, guildID, userID int64, side entities.PledgeSide) error {
	args := m.Called(ctx, guildID, userID, side)
	return args.Error(0)
}

func (m *MockRevolutionService) Overthrow(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionService) Support(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionService) Impartial(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionService) SaveThyself(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionService) Resolve(ctx context.Context, roll int) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx, roll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

// MockGuildSettingsService is a mock implementation of GuildSettingsService
type MockGuildSettingsService struct {
	mock.Mock
}

func (m *MockGuildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsService) UpdateSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockGuildSettingsService) SetKing(ctx context.Context, guildID int64, newKingID int64) error {
	args := m.Called(ctx, guildID, newKingID)
	return args.Error(0)
}
