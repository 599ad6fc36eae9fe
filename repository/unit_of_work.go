package repository

import (
	"context"
	"fmt"

	"bsebot/database"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	guildID          int64
	transactionalBus *events.TransactionalBus

	userRepo           interfaces.UserRepository
	betRepo            interfaces.BetRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	interactionRepo    interfaces.InteractionRepository
	wordleRepo         interfaces.WordleRepository
	revolutionRepo     interfaces.RevolutionRepository
	salaryRunRepo      interfaces.SalaryRunRepository
	guildSettingsRepo  interfaces.GuildSettingsRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		guildID:          guildID,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction and guild scope
	u.userRepo = NewUserRepositoryScoped(tx, u.guildID)
	u.betRepo = NewBetRepositoryScoped(tx, u.guildID)
	u.balanceHistoryRepo = NewBalanceHistoryRepositoryScoped(tx, u.guildID)
	u.interactionRepo = NewInteractionRepositoryScoped(tx, u.guildID)
	u.wordleRepo = NewWordleRepositoryScoped(tx, u.guildID)
	u.revolutionRepo = NewRevolutionRepositoryScoped(tx, u.guildID)
	u.salaryRunRepo = NewSalaryRunRepositoryScoped(tx, u.guildID)
	u.guildSettingsRepo = NewGuildSettingsRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// InteractionRepository returns the interaction repository for this unit of work
func (u *unitOfWork) InteractionRepository() interfaces.InteractionRepository {
	if u.interactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.interactionRepo
}

// WordleRepository returns the wordle repository for this unit of work
func (u *unitOfWork) WordleRepository() interfaces.WordleRepository {
	if u.wordleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wordleRepo
}

// RevolutionRepository returns the revolution repository for this unit of work
func (u *unitOfWork) RevolutionRepository() interfaces.RevolutionRepository {
	if u.revolutionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.revolutionRepo
}

// SalaryRunRepository returns the salary run repository for this unit of work
func (u *unitOfWork) SalaryRunRepository() interfaces.SalaryRunRepository {
	if u.salaryRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.salaryRunRepo
}

// GuildSettingsRepository returns the guild settings repository for this unit of work
func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
