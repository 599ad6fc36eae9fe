package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"bsebot/domain/entities"
	"bsebot/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// voicePerSecondRate is the salary credit per second spent in voice
	voicePerSecondRate = 0.001
	// streamingPerSecondRate is the salary credit per second spent streaming
	streamingPerSecondRate = 0.0015
	// voiceSessionBonus is the flat credit per voice session with logged time
	voiceSessionBonus = 1
	// streamingSessionBonus is the flat credit per streaming session
	streamingSessionBonus = 2
)

type salaryService struct {
	userRepo          interfaces.UserRepository
	interactionRepo   interfaces.InteractionRepository
	wordleRepo        interfaces.WordleRepository
	salaryRunRepo     interfaces.SalaryRunRepository
	guildSettingsRepo interfaces.GuildSettingsRepository
	userService       interfaces.UserService
}

// NewSalaryService creates a new salary service
func NewSalaryService(
	userRepo interfaces.UserRepository,
	interactionRepo interfaces.InteractionRepository,
	wordleRepo interfaces.WordleRepository,
	salaryRunRepo interfaces.SalaryRunRepository,
	guildSettingsRepo interfaces.GuildSettingsRepository,
	userService interfaces.UserService,
) interfaces.SalaryService {
	return &salaryService{
		userRepo:          userRepo,
		interactionRepo:   interactionRepo,
		wordleRepo:        wordleRepo,
		salaryRunRepo:     salaryRunRepo,
		guildSettingsRepo: guildSettingsRepo,
		userService:       userService,
	}
}

// dayWindow returns [day 00:00, next day 00:00) in UTC
func dayWindow(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// CalculateDaily computes one user's salary for the given day. When real is
// true, daily-minimum changes are persisted; preview mode leaves them alone.
func (s *salaryService) CalculateDaily(ctx context.Context, user *entities.User, day time.Time, real bool) (*entities.SalaryBreakdown, error) {
	from, to := dayWindow(day)

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, user.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	counts, err := s.interactionRepo.CountByUserAndRange(ctx, user.DiscordID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	voice, err := s.interactionRepo.VoiceTotalsByUserAndRange(ctx, user.DiscordID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get voice totals: %w", err)
	}

	attempt, err := s.wordleRepo.GetByUserAndDay(ctx, user.DiscordID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get wordle attempt: %w", err)
	}

	breakdown := &entities.SalaryBreakdown{
		DiscordID:       user.DiscordID,
		NewDailyMinimum: user.DailyMinimum,
	}

	hadActivity := counts.Total() > 0 || voice.VCSeconds > 0 || voice.StreamingSeconds > 0 || attempt != nil

	// Inactivity decays the daily minimum by one, floored at zero, and pays
	// nothing for the day
	if !hadActivity {
		if user.DailyMinimum > 0 {
			breakdown.NewDailyMinimum = user.DailyMinimum - 1
			breakdown.MinimumDecayed = true
			if real {
				if err := s.userRepo.UpdateDailyMinimum(ctx, user.DiscordID, breakdown.NewDailyMinimum); err != nil {
					return nil, fmt.Errorf("failed to decay daily minimum: %w", err)
				}
			}
		}
		return breakdown, nil
	}

	// A decayed minimum recovers to the server default on any activity
	minimum := user.DailyMinimum
	if minimum != settings.DailyMinimum {
		minimum = settings.DailyMinimum
		breakdown.NewDailyMinimum = minimum
		if real {
			if err := s.userRepo.UpdateDailyMinimum(ctx, user.DiscordID, minimum); err != nil {
				return nil, fmt.Errorf("failed to reset daily minimum: %w", err)
			}
		}
	}

	breakdown.Base = minimum
	breakdown.ActivityEddies = counts.Eddies()
	total := float64(minimum) + breakdown.ActivityEddies

	if voice.VCSeconds > 0 {
		breakdown.VoiceEddies = float64(voice.VCSeconds)*voicePerSecondRate + float64(voice.VCSessions)*voiceSessionBonus
		total += breakdown.VoiceEddies
	}
	if voice.StreamingSeconds > 0 {
		breakdown.StreamingEddies = float64(voice.StreamingSeconds)*streamingPerSecondRate + float64(voice.StreamingSessions)*streamingSessionBonus
		total += breakdown.StreamingEddies
	}

	if attempt != nil {
		wordle, err := s.wordleEddies(ctx, attempt, from)
		if err != nil {
			return nil, err
		}
		breakdown.WordleEddies = wordle
		total += wordle
	}

	breakdown.GrossTotal = int64(math.Floor(total))

	if !user.King {
		rate := settings.TaxRateFor(user.IsSupporter())
		breakdown.Tax = int64(math.Floor(float64(breakdown.GrossTotal) * rate))
	}
	breakdown.NetTotal = breakdown.GrossTotal - breakdown.Tax

	return breakdown, nil
}

// wordleEddies returns the participation credit plus the best-of-day bonus.
// The bot competes like anyone else; its failed-day placeholder score does
// not count as a real result.
func (s *salaryService) wordleEddies(ctx context.Context, attempt *entities.WordleAttempt, day time.Time) (float64, error) {
	eddies := float64(entities.WordleParticipationCredit)

	attempts, err := s.wordleRepo.GetByDay(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to get day's wordle attempts: %w", err)
	}

	best := entities.BestWordleGuesses(attempts)
	if best > 0 && attempt.Guesses == best {
		eddies += entities.WordleBestBonus
	}

	return eddies, nil
}

// RunDaily distributes salaries for every active user in the guild. Real runs
// mutate balances and record the run under a fresh idempotency key; a day that
// already has a recorded run is skipped.
func (s *salaryService) RunDaily(ctx context.Context, day time.Time, real bool) (*entities.SalaryRunResult, error) {
	from, _ := dayWindow(day)

	if real {
		existing, err := s.salaryRunRepo.GetByDay(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing run: %w", err)
		}
		if existing != nil {
			log.WithFields(log.Fields{
				"guild_id": existing.GuildID,
				"day":      from.Format("2006-01-02"),
				"run_id":   existing.ID,
			}).Info("Salary already distributed for this day, skipping")
			return &entities.SalaryRunResult{RunID: existing.ID, Day: from, Real: true}, nil
		}
	}

	users, err := s.userRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}

	result := &entities.SalaryRunResult{
		RunID: uuid.New(),
		Day:   from,
		Real:  real,
	}

	var guildID int64
	var taxCollected int64
	for _, user := range users {
		guildID = user.GuildID
		breakdown, err := s.CalculateDaily(ctx, user, from, real)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate salary for user %d: %w", user.DiscordID, err)
		}
		result.Breakdowns = append(result.Breakdowns, breakdown)

		if breakdown.NetTotal <= 0 {
			continue
		}
		taxCollected += breakdown.Tax
		result.TotalPaid += breakdown.NetTotal

		if real {
			metadata := map[string]any{"salary_run": result.RunID.String()}
			if _, err := s.userService.ApplyBalanceChange(ctx, user.DiscordID, breakdown.NetTotal, entities.TransactionTypeSalary, metadata); err != nil {
				return nil, fmt.Errorf("failed to pay salary to user %d: %w", user.DiscordID, err)
			}
		}
	}
	result.TaxCollected = taxCollected

	// Tax proceeds go to the King as one lump credit, separate from their
	// own salary
	if real && taxCollected > 0 {
		settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild settings: %w", err)
		}
		if settings.HasKing() {
			metadata := map[string]any{"salary_run": result.RunID.String()}
			if _, err := s.userService.ApplyBalanceChange(ctx, *settings.KingID, taxCollected, entities.TransactionTypeSalaryTax, metadata); err != nil {
				return nil, fmt.Errorf("failed to credit King's salary tax: %w", err)
			}
		}
	}

	if real {
		run := &entities.SalaryRun{
			ID:           result.RunID,
			GuildID:      guildID,
			Day:          from,
			UsersPaid:    len(result.Breakdowns),
			TotalPaid:    result.TotalPaid,
			TaxCollected: taxCollected,
		}
		if err := s.salaryRunRepo.Record(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record salary run: %w", err)
		}
	}

	return result, nil
}
