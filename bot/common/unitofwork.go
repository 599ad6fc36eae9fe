package common

import (
	"context"
	"fmt"
	"strconv"

	"bsebot/domain/interfaces"
)

// BeginGuildUnitOfWork creates and begins a unit of work scoped to the guild
// a Discord interaction came from
func BeginGuildUnitOfWork(ctx context.Context, factory interfaces.UnitOfWorkFactory, guildID string) (interfaces.UnitOfWork, error) {
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing guild ID %s: %w", guildID, err)
	}

	uow := factory.CreateForGuild(id)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}

	return uow, nil
}
