package revolution

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"bsebot/bot/common"
	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleStatus posts the open event's embed with the faction buttons
func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for revolution status")
		common.RespondWithError(s, i, "Unable to check the revolution. Please try again.")
		return
	}
	defer uow.Rollback()

	event, err := uow.RevolutionRepository().GetOpen(ctx)
	if err != nil {
		log.WithError(err).Error("Error loading open revolution")
		common.RespondWithError(s, i, "Unable to check the revolution. Please try again.")
		return
	}
	uow.Rollback()

	if event == nil {
		if err := common.RespondWithContent(s, i, "All is quiet. No revolution is underway.", true); err != nil {
			log.Errorf("Error responding to revolution command: %v", err)
		}
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildEventEmbed(event), BuildEventComponents(event), false); err != nil {
		log.Errorf("Error responding to revolution command: %v", err)
		return
	}

	// Track where the embed landed so worker announcements and button
	// presses can refresh it
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		return
	}
	f.saveMessageRef(ctx, i.GuildID, msg.ID, i.ChannelID)
}

func (f *Feature) saveMessageRef(ctx context.Context, guildID, messageID, channelID string) {
	msgID, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return
	}
	chanID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, guildID)
	if err != nil {
		return
	}
	defer uow.Rollback()

	event, err := uow.RevolutionRepository().GetOpen(ctx)
	if err != nil || event == nil {
		return
	}

	event.MessageID = msgID
	event.ChannelID = chanID
	if err := uow.RevolutionRepository().Update(ctx, event); err != nil {
		log.WithError(err).Warn("Could not save revolution message ref")
		return
	}
	if err := uow.Commit(); err != nil {
		log.WithError(err).Warn("Could not commit revolution message ref")
	}
}

// handlePledge records a faction commitment ahead of the next event
func (f *Feature) handlePledge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	side := entities.PledgeSide(i.ApplicationCommandData().Options[0].StringValue())

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for pledge")
		common.RespondWithError(s, i, "Unable to record your pledge. Please try again.")
		return
	}
	defer uow.Rollback()

	if err := buildRevolutionService(uow).Pledge(ctx, guildID, userID, side); err != nil {
		f.respondPledgeError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing pledge")
		common.RespondWithError(s, i, "Unable to record your pledge. Please try again.")
		return
	}

	message := "Your pledge is sealed. You will stand with the King when the revolution comes."
	if side == entities.PledgeOverthrow {
		message = "Your pledge is sealed. You will rise against the King when the revolution comes."
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to pledge command: %v", err)
	}
}

func (f *Feature) respondPledgeError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, entities.ErrRevolutionUnderway):
		common.RespondWithError(s, i, "The revolution is already underway. Pick your side with the buttons.")
	case errors.Is(err, entities.ErrAlreadyPledged):
		common.RespondWithError(s, i, "You have already pledged for the coming revolution.")
	case errors.Is(err, entities.ErrKingCannotVote):
		common.RespondWithError(s, i, "The King cannot pledge on their own overthrow.")
	case errors.Is(err, entities.ErrInvalidPledgeSide):
		common.RespondWithError(s, i, "Pledge either overthrow or support.")
	default:
		log.WithError(err).Error("Pledge failed")
		common.RespondWithError(s, i, "Unable to record your pledge. Please try again.")
	}
}

func (f *Feature) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	action := strings.TrimPrefix(i.MessageComponentData().CustomID, "revolution_")

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for revolution vote")
		common.RespondWithError(s, i, "Unable to process your pledge. Please try again.")
		return
	}
	defer uow.Rollback()

	svc := buildRevolutionService(uow)

	var event *entities.RevolutionEvent
	switch action {
	case "overthrow":
		event, err = svc.Overthrow(ctx, userID)
	case "support":
		event, err = svc.Support(ctx, userID)
	case "impartial":
		event, err = svc.Impartial(ctx, userID)
	case "save":
		event, err = svc.SaveThyself(ctx, userID)
	default:
		return
	}

	if err != nil {
		f.respondVoteError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing revolution vote")
		common.RespondWithError(s, i, "Unable to process your pledge. Please try again.")
		return
	}

	if err := common.UpdateComponentMessage(s, i, BuildEventEmbed(event), BuildEventComponents(event)); err != nil {
		log.Errorf("Error updating revolution message: %v", err)
	}
}

func (f *Feature) respondVoteError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, entities.ErrEventClosed):
		common.RespondWithError(s, i, "The revolution has ended.")
	case errors.Is(err, entities.ErrKingCannotVote):
		common.RespondWithError(s, i, "The King cannot vote on their own overthrow.")
	case errors.Is(err, entities.ErrPledgeLocked):
		common.RespondWithError(s, i, "Your pledge is locked for this revolution.")
	case errors.Is(err, entities.ErrAlreadyInFaction):
		common.RespondWithError(s, i, "You are already in that faction.")
	case errors.Is(err, entities.ErrNotTheKing):
		common.RespondWithError(s, i, "Only the King may save themselves.")
	default:
		log.WithError(err).Error("Revolution vote failed")
		common.RespondWithError(s, i, "Unable to process your pledge. Please try again.")
	}
}

// RefreshEventMessage redraws the event embed, used by event subscriptions
func (f *Feature) RefreshEventMessage(ctx context.Context, s *discordgo.Session, guildID int64) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return
	}
	defer uow.Rollback()

	event, err := uow.RevolutionRepository().GetOpen(ctx)
	if err != nil || event == nil || event.MessageID == 0 {
		return
	}

	embeds := []*discordgo.MessageEmbed{BuildEventEmbed(event)}
	components := BuildEventComponents(event)
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    strconv.FormatInt(event.ChannelID, 10),
		ID:         strconv.FormatInt(event.MessageID, 10),
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.WithError(err).Warn("Could not refresh revolution message")
	}
}
