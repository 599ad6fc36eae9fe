package betting

import (
	"fmt"
	"sort"
	"strings"

	"bsebot/bot/common"
	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	colorActive   = 0x5865F2
	colorClosed   = 0x99AAB5
	colorResolved = 0x57F287
)

// OptionEmojis is the pool of emojis assigned to bet outcomes in order
var OptionEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// BuildBetEmbed renders a bet's current state
func BuildBetEmbed(bet *entities.Bet) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Bet %s: %s", bet.BetID, bet.Title),
		Color: colorActive,
	}

	switch {
	case bet.IsResolved():
		embed.Color = colorResolved
		names := make([]string, 0, len(bet.Result))
		for _, emoji := range bet.Result {
			names = append(names, fmt.Sprintf("%s %s", emoji, bet.OptionLabel(emoji)))
		}
		embed.Description = fmt.Sprintf("**Resolved**. Winner: %s", strings.Join(names, ", "))
	case !bet.Active:
		embed.Color = colorClosed
		embed.Description = "**Closed**. No more stakes, awaiting the result"
	default:
		embed.Description = fmt.Sprintf("Open until %s. Place your eddies!",
			common.FormatDiscordTimestamp(bet.TimeoutAt, "R"))
	}

	for _, opt := range bet.Options {
		staked := bet.StakedOn([]string{opt.Emoji})
		betters := 0
		for _, stake := range bet.Betters {
			if stake.Emoji == opt.Emoji {
				betters++
			}
		}

		value := "no stakes yet"
		if betters > 0 {
			value = fmt.Sprintf("**%s eddies** from %d better(s)", common.FormatEddies(staked), betters)
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s", opt.Emoji, opt.Label),
			Value:  value,
			Inline: true,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Total pot: %s eddies", common.FormatEddies(bet.TotalStaked())),
	}

	return embed
}

// BuildBetComponents creates one button per outcome. Buttons are disabled
// once the bet stops accepting stakes.
func BuildBetComponents(bet *entities.Bet) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var buttons []discordgo.MessageComponent

	for idx, opt := range bet.Options {
		buttons = append(buttons, discordgo.Button{
			Label:    opt.Label,
			Emoji:    &discordgo.ComponentEmoji{Name: opt.Emoji},
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("bet_place_%s_%d", bet.BetID, idx),
			Disabled: !bet.AcceptingStakes(),
		})

		// Discord caps a row at five buttons
		if len(buttons) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: buttons})
			buttons = nil
		}
	}
	if len(buttons) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}

	return rows
}

// BuildResolveSummaryEmbed renders the payout summary after a bet resolves
func BuildResolveSummaryEmbed(summary *entities.BetCloseSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Bet %s resolved: %s", summary.BetID, summary.Title),
		Color: colorResolved,
	}

	names := make([]string, 0, len(summary.Result))
	for i, emoji := range summary.Result {
		name := emoji
		if i < len(summary.OutcomeNames) {
			name = fmt.Sprintf("%s %s", emoji, summary.OutcomeNames[i])
		}
		names = append(names, name)
	}
	embed.Description = fmt.Sprintf("Winning outcome: %s", strings.Join(names, ", "))

	if len(summary.Winners) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Winners",
			Value: formatUserAmounts(summary.Winners, "won"),
		})
	}
	if len(summary.Losers) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Losers",
			Value: formatUserAmounts(summary.Losers, "lost"),
		})
	}
	if summary.TaxCollected > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("The King skimmed %s eddies in tax", common.FormatEddies(summary.TaxCollected)),
		}
	}

	return embed
}

func formatUserAmounts(amounts map[int64]int64, verb string) string {
	ids := make([]int64, 0, len(amounts))
	for id := range amounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return amounts[ids[i]] > amounts[ids[j]] })

	var lines []string
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("<@%d> %s **%s eddies**", id, verb, common.FormatEddies(amounts[id])))
	}
	return strings.Join(lines, "\n")
}
