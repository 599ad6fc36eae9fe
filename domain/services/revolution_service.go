package services

import (
	"context"
	"fmt"
	"time"

	"bsebot/config"
	"bsebot/domain/entities"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// saveThyselfCost is the fraction of the King's balance a save costs
const saveThyselfCost = 0.1

type revolutionService struct {
	config            *config.Config
	revolutionRepo    interfaces.RevolutionRepository
	userRepo          interfaces.UserRepository
	guildSettingsRepo interfaces.GuildSettingsRepository
	userService       interfaces.UserService
	eventPublisher    interfaces.EventPublisher
}

// NewRevolutionService creates a new revolution service
func NewRevolutionService(
	revolutionRepo interfaces.RevolutionRepository,
	userRepo interfaces.UserRepository,
	guildSettingsRepo interfaces.GuildSettingsRepository,
	userService interfaces.UserService,
	eventPublisher interfaces.EventPublisher,
) interfaces.RevolutionService {
	return &revolutionService{
		config:            config.Get(),
		revolutionRepo:    revolutionRepo,
		userRepo:          userRepo,
		guildSettingsRepo: guildSettingsRepo,
		userService:       userService,
		eventPublisher:    eventPublisher,
	}
}

// OpenEvent creates the weekly revolution event. Requires a seated King and
// no event already open.
func (s *revolutionService) OpenEvent(ctx context.Context, guildID int64, expiresAt time.Time) (*entities.RevolutionEvent, error) {
	existing, err := s.revolutionRepo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for open event: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("a revolution is already underway")
	}

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if !settings.HasKing() {
		return nil, fmt.Errorf("no King is seated, nothing to overthrow")
	}

	pledges, err := s.revolutionRepo.GetPledges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledges: %w", err)
	}

	event := &entities.RevolutionEvent{
		GuildID:   guildID,
		KingID:    *settings.KingID,
		Chance:    s.config.RevolutionChance,
		Open:      true,
		ExpiresAt: expiresAt,
	}
	event.SeedPledges(pledges)

	if err := s.revolutionRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create revolution event: %w", err)
	}

	if len(pledges) > 0 {
		if err := s.revolutionRepo.DeletePledges(ctx); err != nil {
			return nil, fmt.Errorf("failed to consume pledges: %w", err)
		}
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"event_id": event.ID,
			"pledges":  len(pledges),
			"chance":   event.Chance,
		}).Info("Pre-event pledges locked in")
	}

	return event, nil
}

// Pledge commits the user to a side before the event opens. Pledges are
// immutable and lock the user's faction for the next revolution.
func (s *revolutionService) Pledge(ctx context.Context, guildID, userID int64, side entities.PledgeSide) error {
	if side != entities.PledgeOverthrow && side != entities.PledgeSupport {
		return entities.ErrInvalidPledgeSide
	}

	event, err := s.revolutionRepo.GetOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for open event: %w", err)
	}
	if event != nil {
		return entities.ErrRevolutionUnderway
	}

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}
	if settings.KingID != nil && *settings.KingID == userID {
		return entities.ErrKingCannotVote
	}

	pledge := &entities.RevolutionPledge{DiscordID: userID, Side: side}
	if err := s.revolutionRepo.CreatePledge(ctx, pledge); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"side":     side,
	}).Info("Revolution pledge recorded")

	return nil
}

func (s *revolutionService) mutate(ctx context.Context, apply func(*entities.RevolutionEvent) error) (*entities.RevolutionEvent, error) {
	event, err := s.revolutionRepo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open event: %w", err)
	}
	if event == nil {
		return nil, entities.ErrEventClosed
	}

	if err := apply(event); err != nil {
		return nil, err
	}

	if err := s.revolutionRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.eventPublisher.Publish(events.RevolutionStateChangeEvent{
		GuildID:   event.GuildID,
		EventID:   event.ID,
		MessageID: event.MessageID,
		ChannelID: event.ChannelID,
		Chance:    event.Chance,
		Open:      event.Open,
	})

	return event, nil
}

// Overthrow pledges the user to the revolution
func (s *revolutionService) Overthrow(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	return s.mutate(ctx, func(e *entities.RevolutionEvent) error {
		return e.Overthrow(userID, time.Now())
	})
}

// Support pledges the user to the King
func (s *revolutionService) Support(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	return s.mutate(ctx, func(e *entities.RevolutionEvent) error {
		return e.Support(userID, time.Now())
	})
}

// Impartial withdraws the user to neutrality
func (s *revolutionService) Impartial(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	return s.mutate(ctx, func(e *entities.RevolutionEvent) error {
		return e.Impartial(userID, time.Now())
	})
}

// SaveThyself lets the King buy down the overthrow chance for a tenth of
// their fortune
func (s *revolutionService) SaveThyself(ctx context.Context, userID int64) (*entities.RevolutionEvent, error) {
	event, err := s.revolutionRepo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open event: %w", err)
	}
	if event == nil {
		return nil, entities.ErrEventClosed
	}

	if err := event.KingSave(userID, time.Now()); err != nil {
		return nil, err
	}

	king, err := s.userRepo.GetByDiscordID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get King: %w", err)
	}
	if king == nil {
		return nil, fmt.Errorf("King %d not found", userID)
	}

	cost := int64(float64(king.Points) * saveThyselfCost)
	if cost > 0 {
		metadata := map[string]any{"event_id": event.ID, "times_saved": event.TimesSaved}
		if _, err := s.userService.ApplyBalanceChange(ctx, userID, -cost, entities.TransactionTypeRevolutionSave, metadata); err != nil {
			return nil, fmt.Errorf("failed to charge King's save: %w", err)
		}
	}

	if err := s.revolutionRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.eventPublisher.Publish(events.RevolutionStateChangeEvent{
		GuildID:   event.GuildID,
		EventID:   event.ID,
		MessageID: event.MessageID,
		ChannelID: event.ChannelID,
		Chance:    event.Chance,
		Open:      event.Open,
	})

	return event, nil
}

// Resolve closes an expired event by rolling against its final chance. On a
// successful overthrow the crown passes to the wealthiest revolutionary.
func (s *revolutionService) Resolve(ctx context.Context, roll int) (*entities.RevolutionEvent, error) {
	event, err := s.revolutionRepo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open event: %w", err)
	}
	if event == nil {
		return nil, entities.ErrEventClosed
	}

	now := time.Now()
	if now.Before(event.ExpiresAt) {
		return nil, entities.ErrEventNotExpired
	}

	success := roll < event.Chance
	event.CloseOut(success, now)

	if success {
		if err := s.transferCrown(ctx, event); err != nil {
			return nil, err
		}
	}

	if err := s.revolutionRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to close event: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id": event.GuildID,
		"event_id": event.ID,
		"chance":   event.Chance,
		"roll":     roll,
		"success":  success,
	}).Info("Revolution resolved")

	s.eventPublisher.Publish(events.RevolutionStateChangeEvent{
		GuildID:   event.GuildID,
		EventID:   event.ID,
		MessageID: event.MessageID,
		ChannelID: event.ChannelID,
		Chance:    event.Chance,
		Open:      false,
	})

	return event, nil
}

// transferCrown moves the King flag to the richest revolutionary
func (s *revolutionService) transferCrown(ctx context.Context, event *entities.RevolutionEvent) error {
	var heir *entities.User
	for _, id := range event.Revolutionaries {
		user, err := s.userRepo.GetByDiscordID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get revolutionary %d: %w", id, err)
		}
		if user == nil {
			continue
		}
		if heir == nil || user.Points > heir.Points {
			heir = user
		}
	}
	// heir may stay nil: an overthrow with no revolutionaries leaves the
	// throne empty

	if err := s.userRepo.SetKing(ctx, event.KingID, false); err != nil {
		return fmt.Errorf("failed to dethrone King: %w", err)
	}

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if heir != nil {
		if err := s.userRepo.SetKing(ctx, heir.DiscordID, true); err != nil {
			return fmt.Errorf("failed to crown new King: %w", err)
		}
		settings.KingID = &heir.DiscordID
	} else {
		settings.KingID = nil
	}

	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	return nil
}
