package entities

import "time"

// InteractionKind tags a single countable Discord activity event
type InteractionKind string

const (
	InteractionMessage             InteractionKind = "message"
	InteractionLink                InteractionKind = "link"
	InteractionGif                 InteractionKind = "gif"
	InteractionAttachment          InteractionKind = "attachment"
	InteractionReply               InteractionKind = "reply"
	InteractionReplyReceived       InteractionKind = "reply_received"
	InteractionMention             InteractionKind = "mention"
	InteractionRoleMention         InteractionKind = "role_mention"
	InteractionChannelMention      InteractionKind = "channel_mention"
	InteractionEveryoneMention     InteractionKind = "everyone_mention"
	InteractionCustomEmoji         InteractionKind = "custom_emoji"
	InteractionSticker             InteractionKind = "sticker"
	InteractionReactionReceived    InteractionKind = "reaction_received"
	InteractionCustomEmojiReaction InteractionKind = "custom_emoji_reaction"
	InteractionReactTrain          InteractionKind = "react_train"
	InteractionWordleWordUsed      InteractionKind = "wordle_word_used"
)

// EddiesValue returns the salary credit a single occurrence of this kind earns.
// The switch is exhaustive over all defined kinds; unknown kinds score zero.
func (k InteractionKind) EddiesValue() float64 {
	switch k {
	case InteractionMessage:
		return 0.15
	case InteractionLink:
		return 0.2
	case InteractionGif:
		return 0.2
	case InteractionAttachment:
		return 0.25
	case InteractionReply:
		return 0.5
	case InteractionReplyReceived:
		return 0.5
	case InteractionMention:
		return 0.5
	case InteractionRoleMention:
		return 0.5
	case InteractionChannelMention:
		return 0.5
	case InteractionEveryoneMention:
		return 1.0
	case InteractionCustomEmoji:
		return 0.25
	case InteractionSticker:
		return 0.25
	case InteractionReactionReceived:
		return 0.25
	case InteractionCustomEmojiReaction:
		return 0.25
	case InteractionReactTrain:
		return 0.5
	case InteractionWordleWordUsed:
		return 0.5
	}
	return 0
}

// AllInteractionKinds lists every kind the salary engine scores
var AllInteractionKinds = []InteractionKind{
	InteractionMessage,
	InteractionLink,
	InteractionGif,
	InteractionAttachment,
	InteractionReply,
	InteractionReplyReceived,
	InteractionMention,
	InteractionRoleMention,
	InteractionChannelMention,
	InteractionEveryoneMention,
	InteractionCustomEmoji,
	InteractionSticker,
	InteractionReactionReceived,
	InteractionCustomEmojiReaction,
	InteractionReactTrain,
	InteractionWordleWordUsed,
}

// ActivityCounts holds per-kind occurrence counts for one user over a window
type ActivityCounts map[InteractionKind]int

// Total returns the number of counted events across all kinds
func (c ActivityCounts) Total() int {
	var total int
	for _, n := range c {
		total += n
	}
	return total
}

// Eddies folds the counts into a point total using the per-kind value table
func (c ActivityCounts) Eddies() float64 {
	var total float64
	for kind, n := range c {
		total += float64(n) * kind.EddiesValue()
	}
	return total
}

// InteractionRecord is a persisted activity event
type InteractionRecord struct {
	ID        int64           `db:"id"`
	GuildID   int64           `db:"guild_id"`
	DiscordID int64           `db:"discord_id"`
	Kind      InteractionKind `db:"kind"`
	MessageID int64           `db:"message_id"`
	ChannelID int64           `db:"channel_id"`
	CreatedAt time.Time       `db:"created_at"`
}

// VoiceSession records one stretch of voice-channel presence
type VoiceSession struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	Seconds   int64     `db:"seconds"`
	Streaming bool      `db:"streaming"`
	JoinedAt  time.Time `db:"joined_at"`
	CreatedAt time.Time `db:"created_at"`
}

// VoiceTotals aggregates a user's voice activity over a window
type VoiceTotals struct {
	VCSeconds         int64
	VCSessions        int
	StreamingSeconds  int64
	StreamingSessions int
}
