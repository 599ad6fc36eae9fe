package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bsebot/bot/features/balance"
	"bsebot/bot/features/betting"
	"bsebot/bot/features/revolution"
	"bsebot/bot/features/salary"
	"bsebot/bot/features/transfer"
	"bsebot/domain/events"
	"bsebot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token       string
	WordleBotID int64
}

type Bot struct {
	config     Config
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	eventBus   *events.Bus

	balanceFeature    *balance.Feature
	bettingFeature    *betting.Feature
	transferFeature   *transfer.Feature
	salaryFeature     *salary.Feature
	revolutionFeature *revolution.Feature

	mu            sync.Mutex
	voiceSessions map[string]*activeVoiceSession
}

func New(config Config, uowFactory interfaces.UnitOfWorkFactory, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:            config,
		session:           dg,
		uowFactory:        uowFactory,
		eventBus:          eventBus,
		balanceFeature:    balance.New(uowFactory),
		bettingFeature:    betting.New(uowFactory),
		transferFeature:   transfer.New(uowFactory),
		salaryFeature:     salary.New(uowFactory),
		revolutionFeature: revolution.New(uowFactory),
		voiceSessions:     make(map[string]*activeVoiceSession),
	}

	// Slash commands and component interactions
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponents)

	// Activity tracking for the salary engine
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Keep posted embeds in sync with state changes made outside the
	// originating interaction (timeout sweeps, scheduled resolutions)
	eventBus.Subscribe(events.EventTypeBetStateChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BetStateChangeEvent); ok {
			bot.bettingFeature.RefreshBetByID(ctx, bot.session, e.GuildID, e.BetID)
		}
	})
	eventBus.Subscribe(events.EventTypeRevolutionStateChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RevolutionStateChangeEvent); ok {
			bot.revolutionFeature.RefreshEventMessage(ctx, bot.session, e.GuildID)
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	b.flushAllVoiceSessions()
	return b.session.Close()
}

// Announce posts a plain message to a channel. Satisfies the announcer
// dependency of the scheduled workers.
func (b *Bot) Announce(ctx context.Context, channelID int64, message string) error {
	_, err := b.session.ChannelMessageSend(strconv.FormatInt(channelID, 10), message)
	if err != nil {
		return fmt.Errorf("failed to announce to channel %d: %w", channelID, err)
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "view_balance":
		b.balanceFeature.HandleCommand(s, i)
	case "create_bet", "place_bet", "close_bet":
		b.bettingFeature.HandleCommand(s, i)
	case "gift_eddies":
		b.transferFeature.HandleCommand(s, i)
	case "salary_preview":
		b.salaryFeature.HandleCommand(s, i)
	case "revolution", "pledge":
		b.revolutionFeature.HandleCommand(s, i)
	}
}

func (b *Bot) handleComponents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, "bet_"):
			b.bettingFeature.HandleInteraction(s, i)
		case strings.HasPrefix(customID, "revolution_"):
			b.revolutionFeature.HandleInteraction(s, i)
		}

	case discordgo.InteractionModalSubmit:
		if strings.HasPrefix(i.ModalSubmitData().CustomID, "bet_amount_modal_") {
			b.bettingFeature.HandleInteraction(s, i)
		}
	}
}

// beginUnitOfWork creates a unit of work for a raw gateway event's guild
func (b *Bot) beginUnitOfWork(ctx context.Context, guildID string) (interfaces.UnitOfWork, error) {
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing guild ID %s: %w", guildID, err)
	}

	uow := b.uowFactory.CreateForGuild(id)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return uow, nil
}

// parseDiscordID converts a snowflake string, logging on garbage input
func parseDiscordID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warnf("Unparseable Discord ID %q", raw)
		return 0, false
	}
	return id, true
}
