package bot

import (
	"context"
	"time"

	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// activeVoiceSession tracks one user's current stretch in voice. A change of
// the streaming flag closes the segment and opens a new one so VC and
// streaming seconds accrue separately.
type activeVoiceSession struct {
	guildID   string
	userID    string
	joinedAt  time.Time
	streaming bool
}

func voiceKey(guildID, userID string) string {
	return guildID + ":" + userID
}

func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.GuildID == "" {
		return
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}

	key := voiceKey(v.GuildID, v.UserID)
	inChannel := v.ChannelID != ""
	streaming := v.SelfStream

	b.mu.Lock()
	current := b.voiceSessions[key]

	var toFlush *activeVoiceSession
	switch {
	case current == nil && inChannel:
		b.voiceSessions[key] = &activeVoiceSession{
			guildID:   v.GuildID,
			userID:    v.UserID,
			joinedAt:  time.Now(),
			streaming: streaming,
		}
	case current != nil && !inChannel:
		toFlush = current
		delete(b.voiceSessions, key)
	case current != nil && current.streaming != streaming:
		toFlush = current
		b.voiceSessions[key] = &activeVoiceSession{
			guildID:   v.GuildID,
			userID:    v.UserID,
			joinedAt:  time.Now(),
			streaming: streaming,
		}
	}
	b.mu.Unlock()

	if toFlush != nil {
		b.flushVoiceSession(toFlush)
	}
}

// flushVoiceSession persists a finished voice segment
func (b *Bot) flushVoiceSession(sess *activeVoiceSession) {
	seconds := int64(time.Since(sess.joinedAt).Seconds())
	if seconds <= 0 {
		return
	}

	discordID, ok := parseDiscordID(sess.userID)
	if !ok {
		return
	}

	ctx := context.Background()
	uow, err := b.beginUnitOfWork(ctx, sess.guildID)
	if err != nil {
		log.WithError(err).Error("Could not start unit of work for voice session")
		return
	}
	defer uow.Rollback()

	err = uow.InteractionRepository().RecordVoiceSession(ctx, &entities.VoiceSession{
		DiscordID: discordID,
		Seconds:   seconds,
		Streaming: sess.streaming,
		JoinedAt:  sess.joinedAt,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", discordID).Warn("Could not record voice session")
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Could not commit voice session")
	}
}

// flushAllVoiceSessions closes out every open session, used on shutdown
func (b *Bot) flushAllVoiceSessions() {
	b.mu.Lock()
	sessions := make([]*activeVoiceSession, 0, len(b.voiceSessions))
	for _, sess := range b.voiceSessions {
		sessions = append(sessions, sess)
	}
	b.voiceSessions = make(map[string]*activeVoiceSession)
	b.mu.Unlock()

	for _, sess := range sessions {
		b.flushVoiceSession(sess)
	}
}
