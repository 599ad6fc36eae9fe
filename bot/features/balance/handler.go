package balance

import (
	"context"
	"fmt"
	"strconv"

	"bsebot/bot/common"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleViewBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for balance")
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}
	defer uow.Rollback()

	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	user, err := userService.GetOrCreateUser(ctx, discordID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing balance lookup")
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)

	message := fmt.Sprintf("%s, your current balance: **%s eddies**", displayName, common.FormatEddies(user.Points))
	if user.PendingPoints > 0 {
		message += fmt.Sprintf(" (plus **%s** riding on open bets)", common.FormatEddies(user.PendingPoints))
	}
	if user.King {
		message += " 👑"
	}

	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to view_balance command: %v", err)
	}
}
