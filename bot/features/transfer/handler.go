package transfer

import (
	"context"
	"fmt"
	"strconv"

	"bsebot/bot/common"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleGift(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var recipient *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipient = opt.UserValue(s)
		}
	}

	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}
	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipient.Bot {
		common.RespondWithError(s, i, "Bots have no use for eddies.")
		return
	}

	fromID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing sender Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	toID, err := strconv.ParseInt(recipient.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing recipient Discord ID %s: %v", recipient.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if fromID == toID {
		common.RespondWithError(s, i, "You cannot gift eddies to yourself.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for gift")
		common.RespondWithError(s, i, "Unable to process gift. Please try again.")
		return
	}
	defer uow.Rollback()

	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())

	// Both sides must exist before the transfer
	if _, err := userService.GetOrCreateUser(ctx, fromID, i.Member.User.Username); err != nil {
		log.Errorf("Error getting sender %d: %v", fromID, err)
		common.RespondWithError(s, i, "Unable to process gift. Please try again.")
		return
	}
	if _, err := userService.GetOrCreateUser(ctx, toID, recipient.Username); err != nil {
		log.Errorf("Error getting recipient %d: %v", toID, err)
		common.RespondWithError(s, i, "Unable to process gift. Please try again.")
		return
	}

	if err := userService.Gift(ctx, fromID, toID, amount); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"from":   fromID,
			"to":     toID,
			"amount": amount,
		}).Warn("Gift rejected")
		common.RespondWithError(s, i, err.Error())
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing gift")
		common.RespondWithError(s, i, "Unable to process gift. Please try again.")
		return
	}

	senderName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	recipientName := common.GetDisplayName(s, i.GuildID, recipient.ID)

	message := fmt.Sprintf("**%s** gifted **%s eddies** to **%s**",
		senderName, common.FormatEddies(amount), recipientName)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to gift_eddies command: %v", err)
	}
}
