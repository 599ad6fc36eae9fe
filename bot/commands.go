package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "view_balance",
			Description: "Check your current eddies balance",
		},
		{
			Name:        "create_bet",
			Description: "Open a bet for others to stake eddies on",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "What the bet is about",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "outcomes",
					Description: "Possible outcomes separated by | (2-10)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "timeout_hours",
					Description: "Hours until the bet stops accepting stakes (default 24)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "private",
					Description: "Hide the bet embed from the channel",
					Required:    false,
				},
			},
		},
		{
			Name:        "place_bet",
			Description: "Stake eddies on a bet outcome",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "bet_id",
					Description: "The bet's ID, e.g. 007",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "outcome",
					Description: "Outcome number to back",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Eddies to stake",
					Required:    true,
				},
			},
		},
		{
			Name:        "close_bet",
			Description: "Close a bet, optionally declaring the winning outcome(s)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "bet_id",
					Description: "The bet's ID, e.g. 007",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "winning_outcomes",
					Description: "Winning outcome number(s), e.g. \"1\" or \"1,3\"; omit to just stop stakes",
					Required:    false,
				},
			},
		},
		{
			Name:        "gift_eddies",
			Description: "Gift eddies to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Eddies to gift",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to gift to",
					Required:    true,
				},
			},
		},
		{
			Name:        "salary_preview",
			Description: "Preview what today's activity would pay you",
		},
		{
			Name:        "revolution",
			Description: "Show the current revolution and pick a side",
		},
		{
			Name:        "pledge",
			Description: "Commit to a side before the next revolution opens",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "The side you commit to; pledges lock once the revolution begins",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Overthrow the King", Value: "overthrow"},
						{Name: "Support the King", Value: "support"},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
