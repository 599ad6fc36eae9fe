package salary

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bsebot/bot/common"
	"bsebot/domain/entities"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const embedColor = 0xF1C40F

// handlePreview shows what the invoking user would earn for today's activity
// so far. Nothing is paid out or decayed.
func (f *Feature) handlePreview(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for salary preview")
		common.RespondWithError(s, i, "Unable to preview salary. Please try again.")
		return
	}
	defer uow.Rollback()

	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	user, err := userService.GetOrCreateUser(ctx, discordID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to preview salary. Please try again.")
		return
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	breakdown, err := buildSalaryService(uow).CalculateDaily(ctx, user, day, false)
	if err != nil {
		log.WithError(err).WithField("user_id", discordID).Error("Salary preview failed")
		common.RespondWithError(s, i, "Unable to preview salary. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing salary preview")
		common.RespondWithError(s, i, "Unable to preview salary. Please try again.")
		return
	}

	embed := buildPreviewEmbed(common.GetDisplayName(s, i.GuildID, i.Member.User.ID), user, breakdown)
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to salary_preview command: %v", err)
	}
}

func buildPreviewEmbed(displayName string, user *entities.User, b *entities.SalaryBreakdown) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Salary preview for %s", displayName),
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Daily minimum", Value: common.FormatEddies(b.Base), Inline: true},
			{Name: "Chat activity", Value: fmt.Sprintf("%.2f", b.ActivityEddies), Inline: true},
			{Name: "Voice", Value: fmt.Sprintf("%.2f", b.VoiceEddies), Inline: true},
			{Name: "Streaming", Value: fmt.Sprintf("%.2f", b.StreamingEddies), Inline: true},
			{Name: "Wordle", Value: fmt.Sprintf("%.2f", b.WordleEddies), Inline: true},
			{Name: "Gross", Value: common.FormatEddies(b.GrossTotal), Inline: true},
		},
	}

	if user.King {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Tax", Value: "none, the King is untaxed 👑", Inline: true,
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Tax", Value: common.FormatEddies(b.Tax), Inline: true,
		})
	}

	embed.Description = fmt.Sprintf("You would take home **%s eddies** if the day ended now.", common.FormatEddies(b.NetTotal))
	if b.MinimumDecayed {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("No activity yet today, so your daily minimum would decay to %d", b.NewDailyMinimum),
		}
	}

	return embed
}
