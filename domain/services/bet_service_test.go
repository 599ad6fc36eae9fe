package services

import (
	"context"
	"testing"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBetServiceFixture() (*testhelpers.MockBetRepository, *testhelpers.MockUserRepository, *testhelpers.MockGuildSettingsRepository, *testhelpers.MockUserService, *betService) {
	betRepo := new(testhelpers.MockBetRepository)
	userRepo := new(testhelpers.MockUserRepository)
	settingsRepo := new(testhelpers.MockGuildSettingsRepository)
	userService := new(testhelpers.MockUserService)
	svc := NewBetService(betRepo, userRepo, settingsRepo, userService, testhelpers.NoopEventPublisher{}).(*betService)
	return betRepo, userRepo, settingsRepo, userService, svc
}

func openTestBet() *entities.Bet {
	return &entities.Bet{
		ID:        1,
		BetID:     "001",
		GuildID:   100,
		Title:     "who wins the game",
		Active:    true,
		TimeoutAt: time.Now().Add(time.Hour),
		Options: []*entities.BetOption{
			{Emoji: "1️⃣", Label: "red team"},
			{Emoji: "2️⃣", Label: "blue team"},
		},
	}
}

func TestBetService_CreateBet_Validation(t *testing.T) {
	_, _, _, _, svc := newBetServiceFixture()
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	t.Run("empty title", func(t *testing.T) {
		_, err := svc.CreateBet(ctx, 1, "", []string{"1️⃣", "2️⃣"}, []string{"a", "b"}, future, false, 0)
		assert.Error(t, err)
	})

	t.Run("too few options", func(t *testing.T) {
		_, err := svc.CreateBet(ctx, 1, "title", []string{"1️⃣"}, []string{"a"}, future, false, 0)
		assert.Error(t, err)
	})

	t.Run("label count mismatch", func(t *testing.T) {
		_, err := svc.CreateBet(ctx, 1, "title", []string{"1️⃣", "2️⃣"}, []string{"a"}, future, false, 0)
		assert.Error(t, err)
	})

	t.Run("past timeout", func(t *testing.T) {
		_, err := svc.CreateBet(ctx, 1, "title", []string{"1️⃣", "2️⃣"}, []string{"a", "b"}, time.Now().Add(-time.Minute), false, 0)
		assert.Error(t, err)
	})

	t.Run("duplicate emoji", func(t *testing.T) {
		_, err := svc.CreateBet(ctx, 1, "title", []string{"1️⃣", "1️⃣"}, []string{"a", "b"}, future, false, 0)
		assert.Error(t, err)
	})
}

func TestBetService_PlaceStake(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown option rejected", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		betRepo.On("GetByBetID", ctx, "001").Return(openTestBet(), nil)

		_, err := svc.PlaceStake(ctx, "001", 42, "9️⃣", 100)
		assert.ErrorIs(t, err, entities.ErrInvalidOption)
	})

	t.Run("closed bet rejected", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Active = false
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)

		_, err := svc.PlaceStake(ctx, "001", 42, "1️⃣", 100)
		assert.ErrorIs(t, err, entities.ErrBetNotAcceptingStakes)
	})

	t.Run("insufficient balance rejected", func(t *testing.T) {
		betRepo, userRepo, _, _, svc := newBetServiceFixture()
		betRepo.On("GetByBetID", ctx, "001").Return(openTestBet(), nil)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 50}, nil)

		_, err := svc.PlaceStake(ctx, "001", 42, "1️⃣", 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not enough eddies")
	})

	t.Run("stake switched to another option rejected", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Betters = []*entities.BetStake{{DiscordID: 42, Emoji: "1️⃣", Amount: 100}}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)

		_, err := svc.PlaceStake(ctx, "001", 42, "2️⃣", 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "previously chosen option")
	})

	t.Run("valid stake records then debits", func(t *testing.T) {
		betRepo, userRepo, _, userService, svc := newBetServiceFixture()
		betRepo.On("GetByBetID", ctx, "001").Return(openTestBet(), nil)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 500}, nil)
		betRepo.On("UpsertStake", ctx, "001", int64(42), "1️⃣", int64(100)).Return(nil)
		userService.On("ApplyBalanceChange", ctx, int64(42), int64(-100), entities.TransactionTypeBetStake, mock.Anything).
			Return(&entities.User{DiscordID: 42, Points: 400}, nil)

		bet, err := svc.PlaceStake(ctx, "001", 42, "1️⃣", 100)
		require.NoError(t, err)
		require.NotNil(t, bet)

		betRepo.AssertExpectations(t)
		userService.AssertExpectations(t)
	})
}

func TestBetService_ResolveBet(t *testing.T) {
	ctx := context.Background()
	kingID := int64(99)
	settings := &entities.GuildSettings{
		GuildID:          100,
		KingID:           &kingID,
		TaxRate:          0.1,
		SupporterTaxRate: 0.05,
	}

	t.Run("already resolved is rejected before any payment", func(t *testing.T) {
		betRepo, _, _, userService, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Active = false
		bet.Result = []string{"1️⃣"}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)

		_, err := svc.ResolveBet(ctx, "001", []string{"2️⃣"})
		assert.ErrorIs(t, err, entities.ErrBetAlreadyResolved)
		userService.AssertNotCalled(t, "ApplyBalanceChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown winning option rejected", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		betRepo.On("GetByBetID", ctx, "001").Return(openTestBet(), nil)

		_, err := svc.ResolveBet(ctx, "001", []string{"9️⃣"})
		assert.ErrorIs(t, err, entities.ErrInvalidOption)
	})

	t.Run("no winners resolves without payouts", func(t *testing.T) {
		betRepo, _, settingsRepo, userService, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Betters = []*entities.BetStake{
			{DiscordID: 1, Emoji: "2️⃣", Amount: 200},
			{DiscordID: 2, Emoji: "2️⃣", Amount: 300},
		}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).Return(settings, nil)
		betRepo.On("Resolve", ctx, "001", []string{"1️⃣"}, map[int64]int64{}, mock.Anything).Return(nil)

		summary, err := svc.ResolveBet(ctx, "001", []string{"1️⃣"})
		require.NoError(t, err)
		assert.Empty(t, summary.Winners)
		assert.Equal(t, map[int64]int64{1: 200, 2: 300}, summary.Losers)
		userService.AssertNotCalled(t, "ApplyBalanceChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		betRepo.AssertExpectations(t)
	})

	t.Run("winners are paid, taxed and the King skims", func(t *testing.T) {
		betRepo, userRepo, settingsRepo, userService, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Betters = []*entities.BetStake{
			{DiscordID: 42, Emoji: "1️⃣", Amount: 100},
			{DiscordID: 1, Emoji: "2️⃣", Amount: 200},
			{DiscordID: 2, Emoji: "2️⃣", Amount: 300},
		}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).Return(settings, nil)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42, Points: 400}, nil)

		// Pool 600, winning pool 100, losers pool 500, coefficient 1.45,
		// multiplier 400/360001: gross 656, actual winnings 556, tax 55.
		userService.On("ApplyBalanceChange", ctx, int64(42), int64(601), entities.TransactionTypeBetWin, mock.Anything).
			Return(&entities.User{DiscordID: 42, Points: 1001}, nil)
		userService.On("ApplyBalanceChange", ctx, kingID, int64(55), entities.TransactionTypeBetTax, mock.Anything).
			Return(&entities.User{DiscordID: kingID}, nil)
		betRepo.On("Resolve", ctx, "001", []string{"1️⃣"}, map[int64]int64{42: 601}, mock.Anything).Return(nil)

		summary, err := svc.ResolveBet(ctx, "001", []string{"1️⃣"})
		require.NoError(t, err)
		assert.Equal(t, int64(601), summary.Winners[42])
		assert.Equal(t, int64(55), summary.TaxCollected)
		assert.Equal(t, []string{"red team"}, summary.OutcomeNames)

		betRepo.AssertExpectations(t)
		userService.AssertExpectations(t)
	})

	t.Run("the ledger balances across winners, King and the losers' pool", func(t *testing.T) {
		betRepo, userRepo, settingsRepo, userService, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Betters = []*entities.BetStake{
			{DiscordID: 42, Emoji: "1️⃣", Amount: 100},
			{DiscordID: 43, Emoji: "1️⃣", Amount: 300},
			{DiscordID: 1, Emoji: "2️⃣", Amount: 200},
		}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).Return(settings, nil)
		userRepo.On("GetByDiscordID", ctx, int64(42)).Return(&entities.User{DiscordID: 42}, nil)
		userRepo.On("GetByDiscordID", ctx, int64(43)).Return(&entities.User{DiscordID: 43}, nil)

		wins := make(map[int64]int64)
		userService.On("ApplyBalanceChange", ctx, mock.Anything, mock.Anything, entities.TransactionTypeBetWin, mock.Anything).
			Run(func(args mock.Arguments) {
				wins[args.Get(1).(int64)] = args.Get(2).(int64)
			}).
			Return(&entities.User{}, nil)

		var kingTax int64
		userService.On("ApplyBalanceChange", ctx, kingID, mock.Anything, entities.TransactionTypeBetTax, mock.Anything).
			Run(func(args mock.Arguments) {
				kingTax += args.Get(2).(int64)
			}).
			Return(&entities.User{DiscordID: kingID}, nil)
		betRepo.On("Resolve", ctx, "001", []string{"1️⃣"}, mock.Anything, mock.Anything).Return(nil)

		summary, err := svc.ResolveBet(ctx, "001", []string{"1️⃣"})
		require.NoError(t, err)

		// Pool 600, winning pool 400, one loser: gross 230 and 456, taxed
		// at 10% of the profit
		assert.Equal(t, map[int64]int64{42: 217, 43: 441}, wins)
		assert.Equal(t, int64(28), kingTax)
		assert.Equal(t, kingTax, summary.TaxCollected)
		assert.Equal(t, map[int64]int64{1: 200}, summary.Losers)

		// Every eddie taken off a winner's gross lands with the King
		multiplier, coefficient := CalculateBetModifiers(600, 400, 2, 1)
		grossTotal := singleBetWinnings(100, multiplier, coefficient, 200, 2) +
			singleBetWinnings(300, multiplier, coefficient, 200, 2)
		var credited int64
		for _, amount := range wins {
			credited += amount
		}
		assert.Equal(t, grossTotal, credited+kingTax)

		// The losers' pool is fully redistributed to the winner field,
		// modulo a flooring loss bounded by the number of winners
		baseTotal := singleBetWinnings(100, multiplier, coefficient, 0, 2) +
			singleBetWinnings(300, multiplier, coefficient, 0, 2)
		distributed := grossTotal - baseTotal
		assert.LessOrEqual(t, distributed, int64(200))
		assert.Greater(t, distributed, int64(200-2))
	})

	t.Run("the King keeps winnings untaxed", func(t *testing.T) {
		betRepo, userRepo, settingsRepo, userService, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Betters = []*entities.BetStake{
			{DiscordID: kingID, Emoji: "1️⃣", Amount: 100},
			{DiscordID: 1, Emoji: "2️⃣", Amount: 200},
			{DiscordID: 2, Emoji: "2️⃣", Amount: 300},
		}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)
		settingsRepo.On("GetOrCreateGuildSettings", ctx, int64(100)).Return(settings, nil)
		userRepo.On("GetByDiscordID", ctx, kingID).Return(&entities.User{DiscordID: kingID, King: true}, nil)

		// Same pool as above but no tax comes off the gross 656
		userService.On("ApplyBalanceChange", ctx, kingID, int64(656), entities.TransactionTypeBetWin, mock.Anything).
			Return(&entities.User{DiscordID: kingID}, nil)
		betRepo.On("Resolve", ctx, "001", []string{"1️⃣"}, map[int64]int64{kingID: 656}, mock.Anything).Return(nil)

		summary, err := svc.ResolveBet(ctx, "001", []string{"1️⃣"})
		require.NoError(t, err)
		assert.Equal(t, int64(656), summary.Winners[kingID])
		assert.Zero(t, summary.TaxCollected)
		userService.AssertNotCalled(t, "ApplyBalanceChange", ctx, kingID, mock.Anything, entities.TransactionTypeBetTax, mock.Anything)
	})
}

func TestBetService_CloseBet(t *testing.T) {
	ctx := context.Background()

	t.Run("close stops stakes", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		betRepo.On("GetByBetID", ctx, "001").Return(openTestBet(), nil)
		betRepo.On("Close", ctx, "001").Return(nil)

		require.NoError(t, svc.CloseBet(ctx, "001"))
		betRepo.AssertExpectations(t)
	})

	t.Run("resolved bet cannot be closed again", func(t *testing.T) {
		betRepo, _, _, _, svc := newBetServiceFixture()
		bet := openTestBet()
		bet.Result = []string{"1️⃣"}
		betRepo.On("GetByBetID", ctx, "001").Return(bet, nil)

		err := svc.CloseBet(ctx, "001")
		assert.ErrorIs(t, err, entities.ErrBetAlreadyResolved)
	})
}
