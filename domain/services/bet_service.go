package services

import (
	"context"
	"fmt"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type betService struct {
	betRepo           interfaces.BetRepository
	userRepo          interfaces.UserRepository
	guildSettingsRepo interfaces.GuildSettingsRepository
	userService       interfaces.UserService
	eventPublisher    interfaces.EventPublisher
}

// NewBetService creates a new bet service
func NewBetService(
	betRepo interfaces.BetRepository,
	userRepo interfaces.UserRepository,
	guildSettingsRepo interfaces.GuildSettingsRepository,
	userService interfaces.UserService,
	eventPublisher interfaces.EventPublisher,
) interfaces.BetService {
	return &betService{
		betRepo:           betRepo,
		userRepo:          userRepo,
		guildSettingsRepo: guildSettingsRepo,
		userService:       userService,
		eventPublisher:    eventPublisher,
	}
}

// CreateBet creates a new bet with emoji options
func (s *betService) CreateBet(ctx context.Context, creatorID int64, title string, optionEmojis, optionLabels []string, timeoutAt time.Time, private bool, channelID int64) (*entities.Bet, error) {
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	if len(optionEmojis) < 2 {
		return nil, fmt.Errorf("must provide at least 2 options")
	}
	if len(optionEmojis) != len(optionLabels) {
		return nil, fmt.Errorf("must provide a label for each option")
	}
	if !timeoutAt.After(time.Now()) {
		return nil, fmt.Errorf("timeout must be in the future")
	}

	seen := make(map[string]bool, len(optionEmojis))
	for _, emoji := range optionEmojis {
		if seen[emoji] {
			return nil, fmt.Errorf("duplicate option emoji: %s", emoji)
		}
		seen[emoji] = true
	}

	bet := &entities.Bet{
		CreatorID: creatorID,
		Title:     title,
		Private:   private,
		ChannelID: channelID,
		Active:    true,
		TimeoutAt: timeoutAt,
	}
	for i, emoji := range optionEmojis {
		bet.Options = append(bet.Options, &entities.BetOption{
			Emoji: emoji,
			Label: optionLabels[i],
		})
	}

	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	return bet, nil
}

// PlaceStake validates and records a stake, then debits the better's balance.
// The stake record and the debit are two separate writes without rollback;
// the inconsistency window is logged rather than papered over.
func (s *betService) PlaceStake(ctx context.Context, betID string, discordID int64, emoji string, amount int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByBetID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %s not found", betID)
	}

	if err := bet.ValidateStake(discordID, emoji, amount); err != nil {
		return nil, err
	}

	// Affordability is checked against the balance at stake time, not at
	// bet creation
	user, err := s.userRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", discordID)
	}
	if !user.CanAfford(amount) {
		return nil, fmt.Errorf("not enough eddies: balance %d, stake %d", user.Points, amount)
	}

	if err := s.betRepo.UpsertStake(ctx, betID, discordID, emoji, amount); err != nil {
		return nil, fmt.Errorf("failed to record stake: %w", err)
	}

	metadata := map[string]any{"bet_id": betID, "emoji": emoji}
	if _, err := s.userService.ApplyBalanceChange(ctx, discordID, -amount, entities.TransactionTypeBetStake, metadata); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"bet_id":  betID,
			"user_id": discordID,
			"amount":  amount,
		}).Error("Stake recorded but balance debit failed, ledger is inconsistent")
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	return s.betRepo.GetByBetID(ctx, betID)
}

// CloseBet stops a bet accepting stakes without declaring a result
func (s *betService) CloseBet(ctx context.Context, betID string) error {
	bet, err := s.betRepo.GetByBetID(ctx, betID)
	if err != nil {
		return fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return fmt.Errorf("bet %s not found", betID)
	}
	if bet.IsResolved() {
		return entities.ErrBetAlreadyResolved
	}

	if err := s.betRepo.Close(ctx, betID); err != nil {
		return fmt.Errorf("failed to close bet: %w", err)
	}

	s.eventPublisher.Publish(events.BetStateChangeEvent{
		GuildID:   bet.GuildID,
		BetID:     betID,
		MessageID: bet.MessageID,
		ChannelID: bet.ChannelID,
		OldState:  "active",
		NewState:  "closed",
	})

	return nil
}

// ResolveBet declares the winning option(s), computes payouts, and credits
// winners and the King exactly once
func (s *betService) ResolveBet(ctx context.Context, betID string, winningEmojis []string) (*entities.BetCloseSummary, error) {
	bet, err := s.betRepo.GetByBetID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %s not found", betID)
	}
	if bet.IsResolved() {
		return nil, entities.ErrBetAlreadyResolved
	}
	if len(winningEmojis) == 0 {
		return nil, fmt.Errorf("must declare at least one winning option")
	}
	for _, emoji := range winningEmojis {
		if !bet.HasOption(emoji) {
			return nil, entities.ErrInvalidOption
		}
	}

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, bet.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	winningSet := make(map[string]bool, len(winningEmojis))
	for _, e := range winningEmojis {
		winningSet[e] = true
	}

	var winners, losers []*entities.BetStake
	for _, stake := range bet.Betters {
		if winningSet[stake.Emoji] {
			winners = append(winners, stake)
		} else {
			losers = append(losers, stake)
		}
	}

	totalStaked := bet.TotalStaked()
	winningTotal := bet.StakedOn(winningEmojis)
	extraPool := totalStaked - winningTotal

	multiplier, coefficient := CalculateBetModifiers(
		totalStaked, winningTotal, bet.OptionsWithStakes(), len(losers))

	closedAt := time.Now()
	summary := &entities.BetCloseSummary{
		BetID:    betID,
		Title:    bet.Title,
		Result:   winningEmojis,
		ClosedAt: closedAt,
		Winners:  make(map[int64]int64),
		Losers:   make(map[int64]int64),
	}
	for _, emoji := range winningEmojis {
		summary.OutcomeNames = append(summary.OutcomeNames, bet.OptionLabel(emoji))
	}
	for _, stake := range losers {
		summary.Losers[stake.DiscordID] = stake.Amount
	}

	// Nobody picked right: all stakes are lost, no payout. Allowed, not an error.
	if len(winners) == 0 {
		if err := s.betRepo.Resolve(ctx, betID, winningEmojis, summary.Winners, closedAt); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"bet_id":       betID,
			"total_staked": totalStaked,
		}).Info("Bet resolved with no winners")
		s.publishResolved(bet, betID)
		return summary, nil
	}

	var taxCollected int64
	for _, stake := range winners {
		pointsWon := singleBetWinnings(stake.Amount, multiplier, coefficient, extraPool, len(winners))
		actualWon := pointsWon - stake.Amount
		if actualWon < 0 {
			actualWon = 0
		}

		user, err := s.userRepo.GetByDiscordID(ctx, stake.DiscordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get winner %d: %w", stake.DiscordID, err)
		}

		afterTax := pointsWon
		if user != nil && !user.King {
			var tax int64
			afterTax, tax = taxedWinnings(user.IsSupporter(), settings.TaxRate, settings.SupporterTaxRate, actualWon, pointsWon)
			taxCollected += tax
		}

		metadata := map[string]any{"bet_id": betID, "gross": pointsWon}
		if _, err := s.userService.ApplyBalanceChange(ctx, stake.DiscordID, afterTax, entities.TransactionTypeBetWin, metadata); err != nil {
			return nil, fmt.Errorf("failed to pay winner %d: %w", stake.DiscordID, err)
		}

		summary.Winners[stake.DiscordID] = afterTax
	}
	summary.TaxCollected = taxCollected

	// The King skims collected tax whether or not they took part in the bet
	if taxCollected > 0 && settings.HasKing() {
		metadata := map[string]any{"bet_id": betID}
		if _, err := s.userService.ApplyBalanceChange(ctx, *settings.KingID, taxCollected, entities.TransactionTypeBetTax, metadata); err != nil {
			return nil, fmt.Errorf("failed to credit King's tax: %w", err)
		}
	}

	// The WHERE result IS NULL guard in the repository makes a concurrent
	// second resolve fail here, rolling its payments back with it
	if err := s.betRepo.Resolve(ctx, betID, winningEmojis, summary.Winners, closedAt); err != nil {
		return nil, err
	}

	s.publishResolved(bet, betID)
	return summary, nil
}

func (s *betService) publishResolved(bet *entities.Bet, betID string) {
	oldState := "closed"
	if bet.Active {
		oldState = "active"
	}
	s.eventPublisher.Publish(events.BetStateChangeEvent{
		GuildID:   bet.GuildID,
		BetID:     betID,
		MessageID: bet.MessageID,
		ChannelID: bet.ChannelID,
		OldState:  oldState,
		NewState:  "resolved",
	})
}
