package application

import "context"

// GuildLister enumerates the guilds the scheduled workers run against
type GuildLister interface {
	ListGuildIDs(ctx context.Context) ([]int64, error)
}

// Announcer posts plain-text announcements to a Discord channel. The bot
// layer implements it; workers stay free of discordgo.
type Announcer interface {
	Announce(ctx context.Context, channelID int64, message string) error
}
