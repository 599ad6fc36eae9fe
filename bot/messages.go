package bot

import (
	"context"
	"regexp"
	"strings"
	"time"

	"bsebot/application"
	"bsebot/domain/entities"
	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var (
	customEmojiPattern    = regexp.MustCompile(`<a?:\w+:\d+>`)
	channelMentionPattern = regexp.MustCompile(`<#\d+>`)
)

// handleMessageCreate feeds the salary engine: every guild message is
// classified into activity kinds and recorded, and Wordle shares become
// attempts. Bot messages only count for the Wordle bot's own daily result.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" {
		return
	}
	authorID, ok := parseDiscordID(m.Author.ID)
	if !ok {
		return
	}
	if m.Author.Bot && authorID != b.config.WordleBotID {
		return
	}

	ctx := context.Background()
	uow, err := b.beginUnitOfWork(ctx, m.GuildID)
	if err != nil {
		log.WithError(err).Error("Could not start unit of work for message")
		return
	}
	defer uow.Rollback()

	if puzzle, guesses, maxGuesses, shared := application.ParseWordleShare(m.Content); shared {
		attempt := &entities.WordleAttempt{
			DiscordID:  authorID,
			Puzzle:     puzzle,
			Guesses:    guesses,
			MaxGuesses: maxGuesses,
			Day:        time.Now().UTC().Truncate(24 * time.Hour),
		}
		if err := uow.WordleRepository().Upsert(ctx, attempt); err != nil {
			log.WithError(err).WithField("user_id", authorID).Warn("Could not record Wordle attempt")
		}
	}

	if m.Author.Bot {
		if err := uow.Commit(); err != nil {
			log.WithError(err).Error("Could not commit Wordle bot message")
		}
		return
	}

	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := userService.GetOrCreateUser(ctx, authorID, m.Author.Username); err != nil {
		log.WithError(err).WithField("user_id", authorID).Error("Could not ensure user account")
		return
	}

	messageID, _ := parseDiscordID(m.ID)
	channelID, _ := parseDiscordID(m.ChannelID)

	for _, kind := range classifyMessage(m.Message) {
		b.recordInteraction(ctx, uow, authorID, kind, messageID, channelID)
	}

	// Being replied to earns the original author credit too
	if ref := m.ReferencedMessage; ref != nil && ref.Author != nil && !ref.Author.Bot {
		if repliedID, ok := parseDiscordID(ref.Author.ID); ok && repliedID != authorID {
			b.recordInteraction(ctx, uow, repliedID, entities.InteractionReplyReceived, messageID, channelID)
		}
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Could not commit message activity")
	}
}

// classifyMessage maps a message to the activity kinds its author earns
func classifyMessage(m *discordgo.Message) []entities.InteractionKind {
	kinds := []entities.InteractionKind{entities.InteractionMessage}

	content := strings.ToLower(m.Content)
	if strings.Contains(content, "http://") || strings.Contains(content, "https://") {
		if strings.Contains(content, "tenor.com") || strings.Contains(content, "giphy.com") || strings.Contains(content, ".gif") {
			kinds = append(kinds, entities.InteractionGif)
		} else {
			kinds = append(kinds, entities.InteractionLink)
		}
	}

	if len(m.Attachments) > 0 {
		kinds = append(kinds, entities.InteractionAttachment)
	}
	if len(m.StickerItems) > 0 {
		kinds = append(kinds, entities.InteractionSticker)
	}
	if m.MessageReference != nil {
		kinds = append(kinds, entities.InteractionReply)
	}

	for range m.Mentions {
		kinds = append(kinds, entities.InteractionMention)
	}
	for range m.MentionRoles {
		kinds = append(kinds, entities.InteractionRoleMention)
	}
	for range channelMentionPattern.FindAllString(m.Content, -1) {
		kinds = append(kinds, entities.InteractionChannelMention)
	}
	if m.MentionEveryone {
		kinds = append(kinds, entities.InteractionEveryoneMention)
	}

	for range customEmojiPattern.FindAllString(m.Content, -1) {
		kinds = append(kinds, entities.InteractionCustomEmoji)
	}

	return kinds
}

// handleReactionAdd credits the message author for receiving a reaction and
// the reactor for custom emoji and react trains
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" {
		return
	}
	reactorID, ok := parseDiscordID(r.UserID)
	if !ok {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil || msg == nil || msg.Author == nil {
		return
	}

	ctx := context.Background()
	uow, err := b.beginUnitOfWork(ctx, r.GuildID)
	if err != nil {
		log.WithError(err).Error("Could not start unit of work for reaction")
		return
	}
	defer uow.Rollback()

	messageID, _ := parseDiscordID(r.MessageID)
	channelID, _ := parseDiscordID(r.ChannelID)

	if authorID, ok := parseDiscordID(msg.Author.ID); ok && !msg.Author.Bot && authorID != reactorID {
		b.recordInteraction(ctx, uow, authorID, entities.InteractionReactionReceived, messageID, channelID)
	}

	if r.Emoji.ID != "" {
		b.recordInteraction(ctx, uow, reactorID, entities.InteractionCustomEmojiReaction, messageID, channelID)
	}

	// Whoever reacts first with an emoji starts the train and earns the
	// credit; everyone piling on after gets nothing
	if startedReactTrain(msg.Reactions, r.Emoji.Name) {
		b.recordInteraction(ctx, uow, reactorID, entities.InteractionReactTrain, messageID, channelID)
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Could not commit reaction activity")
	}
}

// startedReactTrain reports whether the just-added reaction is the first of
// its emoji on the message. The snapshot is fetched after the add, so a count
// of one means nobody beat the reactor to it.
func startedReactTrain(reactions []*discordgo.MessageReactions, emojiName string) bool {
	for _, reaction := range reactions {
		if reaction.Emoji != nil && reaction.Emoji.Name == emojiName {
			return reaction.Count == 1
		}
	}
	// The fetched message can lag the gateway event; a missing entry still
	// means the reactor was first
	return true
}

func (b *Bot) recordInteraction(ctx context.Context, uow interfaces.UnitOfWork, discordID int64, kind entities.InteractionKind, messageID, channelID int64) {
	err := uow.InteractionRepository().Record(ctx, &entities.InteractionRecord{
		DiscordID: discordID,
		Kind:      kind,
		MessageID: messageID,
		ChannelID: channelID,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": discordID,
			"kind":    kind,
		}).Warn("Could not record interaction")
	}
}
