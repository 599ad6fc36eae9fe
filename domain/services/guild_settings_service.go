package services

import (
	"context"
	"fmt"

	"bsebot/domain/entities"
	"bsebot/domain/interfaces"
)

type guildSettingsService struct {
	guildSettingsRepo interfaces.GuildSettingsRepository
	userRepo          interfaces.UserRepository
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(
	guildSettingsRepo interfaces.GuildSettingsRepository,
	userRepo interfaces.UserRepository,
) interfaces.GuildSettingsService {
	return &guildSettingsService{
		guildSettingsRepo: guildSettingsRepo,
		userRepo:          userRepo,
	}
}

func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

func (s *guildSettingsService) UpdateSettings(ctx context.Context, settings *entities.GuildSettings) error {
	if settings.TaxRate < 0 || settings.TaxRate >= 1 {
		return fmt.Errorf("tax rate must be in [0, 1)")
	}
	if settings.SupporterTaxRate < 0 || settings.SupporterTaxRate >= 1 {
		return fmt.Errorf("supporter tax rate must be in [0, 1)")
	}
	if settings.DailyMinimum < 0 {
		return fmt.Errorf("daily minimum cannot be negative")
	}
	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}

// SetKing moves the crown: the old King's flag clears, the new King's sets,
// and the settings record follows
func (s *guildSettingsService) SetKing(ctx context.Context, guildID int64, newKingID int64) error {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if settings.HasKing() && *settings.KingID == newKingID {
		return nil
	}

	if settings.HasKing() {
		if err := s.userRepo.SetKing(ctx, *settings.KingID, false); err != nil {
			return fmt.Errorf("failed to dethrone old King: %w", err)
		}
	}
	if err := s.userRepo.SetKing(ctx, newKingID, true); err != nil {
		return fmt.Errorf("failed to crown new King: %w", err)
	}

	settings.KingID = &newKingID
	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	return nil
}
