package revolution

import (
	"fmt"

	"bsebot/bot/common"
	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	colorOpen     = 0xE74C3C
	colorResolved = 0x95A5A6
)

// BuildEventEmbed renders the revolution event's current state
func BuildEventEmbed(event *entities.RevolutionEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚔️ REVOLUTION ⚔️",
		Color: colorOpen,
	}

	if event.Open {
		embed.Description = fmt.Sprintf(
			"The reign of <@%d> is under threat!\n\nThe uprising currently succeeds with a **%d%%** chance. Pick a side before %s.",
			event.KingID, event.Chance, common.FormatDiscordTimestamp(event.ExpiresAt, "R"))
	} else {
		embed.Color = colorResolved
		outcome := "The revolution failed. Long live the King!"
		if event.Success != nil && *event.Success {
			outcome = "The revolution succeeded! The King has been overthrown."
		}
		embed.Description = outcome
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "🔥 Revolutionaries", Value: formatFaction(event.Revolutionaries), Inline: true},
		{Name: "🛡️ Loyalists", Value: formatFaction(event.Supporters), Inline: true},
		{Name: "😐 Impartial", Value: formatFaction(event.Neutrals), Inline: true},
	}

	if event.TimesSaved > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("The King has saved themselves %d time(s)", event.TimesSaved),
		}
	}

	return embed
}

func formatFaction(ids []int64) string {
	if len(ids) == 0 {
		return "nobody"
	}
	var out string
	for idx, id := range ids {
		if idx > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("<@%d>", id)
	}
	return out
}

// BuildEventComponents creates the faction buttons. Disabled once the event closes.
func BuildEventComponents(event *entities.RevolutionEvent) []discordgo.MessageComponent {
	disabled := !event.Open
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "OVERTHROW",
					Style:    discordgo.DangerButton,
					CustomID: "revolution_overthrow",
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "SUPPORT THE KING",
					Style:    discordgo.SuccessButton,
					CustomID: "revolution_support",
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "IMPARTIAL",
					Style:    discordgo.SecondaryButton,
					CustomID: "revolution_impartial",
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "SAVE THYSELF",
					Style:    discordgo.PrimaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "👑"},
					CustomID: "revolution_save",
					Disabled: disabled,
				},
			},
		},
	}
}
