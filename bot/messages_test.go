package bot

import (
	"testing"

	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	t.Run("plain message", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{Content: "hello there"})
		assert.Equal(t, []entities.InteractionKind{entities.InteractionMessage}, kinds)
	})

	t.Run("gif links beat plain links", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{Content: "https://tenor.com/view/something"})
		assert.Contains(t, kinds, entities.InteractionGif)
		assert.NotContains(t, kinds, entities.InteractionLink)
	})

	t.Run("ordinary link", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{Content: "look at https://example.com/article"})
		assert.Contains(t, kinds, entities.InteractionLink)
	})

	t.Run("mentions count once each", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{
			Content:  "hey",
			Mentions: []*discordgo.User{{ID: "1"}, {ID: "2"}},
		})
		count := 0
		for _, k := range kinds {
			if k == entities.InteractionMention {
				count++
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("custom emoji in content", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{Content: "nice one <:pog:123456789>"})
		assert.Contains(t, kinds, entities.InteractionCustomEmoji)
	})

	t.Run("reply reference", func(t *testing.T) {
		kinds := classifyMessage(&discordgo.Message{
			Content:          "agreed",
			MessageReference: &discordgo.MessageReference{MessageID: "42"},
		})
		assert.Contains(t, kinds, entities.InteractionReply)
	})
}

func TestStartedReactTrain(t *testing.T) {
	t.Run("first reactor with the emoji starts the train", func(t *testing.T) {
		reactions := []*discordgo.MessageReactions{
			{Emoji: &discordgo.Emoji{Name: "🔥"}, Count: 1},
		}
		assert.True(t, startedReactTrain(reactions, "🔥"))
	})

	t.Run("piling onto an existing train earns nothing", func(t *testing.T) {
		reactions := []*discordgo.MessageReactions{
			{Emoji: &discordgo.Emoji{Name: "🔥"}, Count: 3},
		}
		assert.False(t, startedReactTrain(reactions, "🔥"))
	})

	t.Run("other emoji counts do not matter", func(t *testing.T) {
		reactions := []*discordgo.MessageReactions{
			{Emoji: &discordgo.Emoji{Name: "😂"}, Count: 7},
			{Emoji: &discordgo.Emoji{Name: "🔥"}, Count: 1},
		}
		assert.True(t, startedReactTrain(reactions, "🔥"))
	})

	t.Run("stale snapshot without the emoji still counts as first", func(t *testing.T) {
		assert.True(t, startedReactTrain(nil, "🔥"))
	})
}
