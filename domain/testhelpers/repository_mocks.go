package testhelpers

import (
	"context"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*entities.User, error) {
	args := m.Called(ctx, discordID, username, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	args := m.Called(ctx, discordID, newBalance)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateDailyMinimum(ctx context.Context, discordID int64, minimum int64) error {
	args := m.Called(ctx, discordID, minimum)
	return args.Error(0)
}

func (m *MockUserRepository) SetSupporterType(ctx context.Context, discordID int64, supporterType entities.SupporterType) error {
	args := m.Called(ctx, discordID, supporterType)
	return args.Error(0)
}

func (m *MockUserRepository) SetKing(ctx context.Context, discordID int64, king bool) error {
	args := m.Called(ctx, discordID, king)
	return args.Error(0)
}

func (m *MockUserRepository) SetInactive(ctx context.Context, discordID int64, inactive bool) error {
	args := m.Called(ctx, discordID, inactive)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetActive(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByBetID(ctx context.Context, betID string) (*entities.Bet, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetActive(ctx context.Context) ([]*entities.Bet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingForUser(ctx context.Context, discordID int64) ([]*entities.Bet, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) UpsertStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) error {
	args := m.Called(ctx, betID, discordID, emoji, amount)
	return args.Error(0)
}

func (m *MockBetRepository) Close(ctx context.Context, betID string) error {
	args := m.Called(ctx, betID)
	return args.Error(0)
}

func (m *MockBetRepository) Resolve(ctx context.Context, betID string, result []string, winners map[int64]int64, closedAt time.Time) error {
	args := m.Called(ctx, betID, result, winners, closedAt)
	return args.Error(0)
}

func (m *MockBetRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*entities.Bet, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdateMessageRef(ctx context.Context, betID string, messageID, channelID int64) error {
	args := m.Called(ctx, betID, messageID, channelID)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockInteractionRepository is a mock implementation of InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Record(ctx context.Context, record *entities.InteractionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInteractionRepository) CountByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (entities.ActivityCounts, error) {
	args := m.Called(ctx, discordID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.ActivityCounts), args.Error(1)
}

func (m *MockInteractionRepository) RecordVoiceSession(ctx context.Context, session *entities.VoiceSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockInteractionRepository) VoiceTotalsByUserAndRange(ctx context.Context, discordID int64, from, to time.Time) (*entities.VoiceTotals, error) {
	args := m.Called(ctx, discordID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VoiceTotals), args.Error(1)
}

// MockWordleRepository is a mock implementation of WordleRepository
type MockWordleRepository struct {
	mock.Mock
}

func (m *MockWordleRepository) Upsert(ctx context.Context, attempt *entities.WordleAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockWordleRepository) GetByUserAndDay(ctx context.Context, discordID int64, day time.Time) (*entities.WordleAttempt, error) {
	args := m.Called(ctx, discordID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WordleAttempt), args.Error(1)
}

func (m *MockWordleRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.WordleAttempt, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WordleAttempt), args.Error(1)
}

// MockRevolutionRepository is a mock implementation of RevolutionRepository
type MockRevolutionRepository struct {
	mock.Mock
}

func (m *MockRevolutionRepository) Create(ctx context.Context, event *entities.RevolutionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRevolutionRepository) GetOpen(ctx context.Context) (*entities.RevolutionEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RevolutionEvent), args.Error(1)
}

func (m *MockRevolutionRepository) Update(ctx context.Context, event *entities.RevolutionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRevolutionRepository) CreatePledge(ctx context.Context, pledge *entities.RevolutionPledge) error {
	args := m.Called(ctx, pledge)
	return args.Error(0)
}

func (m *MockRevolutionRepository) GetPledges(ctx context.Context) ([]*entities.RevolutionPledge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RevolutionPledge), args.Error(1)
}

func (m *MockRevolutionRepository) DeletePledges(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSalaryRunRepository is a mock implementation of SalaryRunRepository
type MockSalaryRunRepository struct {
	mock.Mock
}

func (m *MockSalaryRunRepository) Record(ctx context.Context, run *entities.SalaryRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSalaryRunRepository) GetByDay(ctx context.Context, day time.Time) (*entities.SalaryRun, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SalaryRun), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockGuildSettingsRepository) ListGuildIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork; its accessors hand
// out whatever repository mocks the test wires in
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() interfaces.UserRepository {
	return m.Called().Get(0).(interfaces.UserRepository)
}

func (m *MockUnitOfWork) BetRepository() interfaces.BetRepository {
	return m.Called().Get(0).(interfaces.BetRepository)
}

func (m *MockUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return m.Called().Get(0).(interfaces.BalanceHistoryRepository)
}

func (m *MockUnitOfWork) InteractionRepository() interfaces.InteractionRepository {
	return m.Called().Get(0).(interfaces.InteractionRepository)
}

func (m *MockUnitOfWork) WordleRepository() interfaces.WordleRepository {
	return m.Called().Get(0).(interfaces.WordleRepository)
}

func (m *MockUnitOfWork) RevolutionRepository() interfaces.RevolutionRepository {
	return m.Called().Get(0).(interfaces.RevolutionRepository)
}

func (m *MockUnitOfWork) SalaryRunRepository() interfaces.SalaryRunRepository {
	return m.Called().Get(0).(interfaces.SalaryRunRepository)
}

func (m *MockUnitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return m.Called().Get(0).(interfaces.GuildSettingsRepository)
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Called().Get(0).(interfaces.EventPublisher)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return m.Called(guildID).Get(0).(interfaces.UnitOfWork)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher swallows events for tests that do not assert on them
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}
