package betting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bsebot/bot/common"
	"bsebot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	maxOutcomes        = 10
	defaultTimeoutHrs  = 24
	maxTimeoutHrs      = 24 * 14
	maxTitleLength     = 200
	maxOutcomeLabelLen = 80
)

func (f *Feature) handleCreateBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var title, outcomes string
	timeoutHours := int64(defaultTimeoutHrs)
	private := false
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "title":
			title = opt.StringValue()
		case "outcomes":
			outcomes = opt.StringValue()
		case "timeout_hours":
			timeoutHours = opt.IntValue()
		case "private":
			private = opt.BoolValue()
		}
	}

	if len(title) > maxTitleLength {
		common.RespondWithError(s, i, "Title is too long.")
		return
	}
	if timeoutHours < 1 || timeoutHours > maxTimeoutHrs {
		common.RespondWithError(s, i, fmt.Sprintf("Timeout must be between 1 and %d hours.", maxTimeoutHrs))
		return
	}

	var labels []string
	for _, label := range strings.Split(outcomes, "|") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if len(label) > maxOutcomeLabelLen {
			common.RespondWithError(s, i, "Outcome labels must be 80 characters or fewer.")
			return
		}
		labels = append(labels, label)
	}
	if len(labels) < 2 || len(labels) > maxOutcomes {
		common.RespondWithError(s, i, fmt.Sprintf("Provide between 2 and %d outcomes separated by |.", maxOutcomes))
		return
	}

	emojis := make([]string, len(labels))
	copy(emojis, OptionEmojis[:len(labels)])

	creatorID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for create_bet")
		common.RespondWithError(s, i, "Unable to create bet. Please try again.")
		return
	}
	defer uow.Rollback()

	svc := buildBetService(uow)
	bet, err := svc.CreateBet(ctx, creatorID, title, emojis, labels,
		time.Now().Add(time.Duration(timeoutHours)*time.Hour), private, channelID)
	if err != nil {
		log.WithError(err).Warn("Bet creation rejected")
		common.RespondWithError(s, i, err.Error())
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing bet creation")
		common.RespondWithError(s, i, "Unable to create bet. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildBetEmbed(bet), BuildBetComponents(bet), private); err != nil {
		log.Errorf("Error responding to create_bet command: %v", err)
		return
	}

	// Remember where the embed landed so later state changes can refresh it
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).Warn("Could not fetch bet message for ref tracking")
		return
	}
	f.saveMessageRef(ctx, i.GuildID, bet.BetID, msg.ID, i.ChannelID)
}

func (f *Feature) saveMessageRef(ctx context.Context, guildID, betID, messageID, channelID string) {
	msgID, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return
	}
	chanID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, guildID)
	if err != nil {
		log.WithError(err).Warn("Could not start unit of work for message ref")
		return
	}
	defer uow.Rollback()

	if err := uow.BetRepository().UpdateMessageRef(ctx, betID, msgID, chanID); err != nil {
		log.WithError(err).WithField("bet_id", betID).Warn("Could not save bet message ref")
		return
	}
	if err := uow.Commit(); err != nil {
		log.WithError(err).WithField("bet_id", betID).Warn("Could not commit bet message ref")
	}
}

func (f *Feature) handlePlaceBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var betID string
	var outcome, amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet_id":
			betID = opt.StringValue()
		case "outcome":
			outcome = opt.IntValue()
		case "amount":
			amount = opt.IntValue()
		}
	}

	if outcome < 1 || outcome > int64(len(OptionEmojis)) {
		common.RespondWithError(s, i, "Invalid outcome number.")
		return
	}

	f.placeStake(s, i, betID, OptionEmojis[outcome-1], amount)
}

// placeStake is shared between the slash command and the stake modal
func (f *Feature) placeStake(s *discordgo.Session, i *discordgo.InteractionCreate, betID, emoji string, amount int64) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for stake")
		common.RespondWithError(s, i, "Unable to place stake. Please try again.")
		return
	}
	defer uow.Rollback()

	svc := buildBetService(uow)
	bet, err := svc.PlaceStake(ctx, betID, discordID, emoji, amount)
	if err != nil {
		f.respondStakeError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing stake")
		common.RespondWithError(s, i, "Unable to place stake. Please try again.")
		return
	}

	stake := bet.StakeFor(discordID)
	message := fmt.Sprintf("You put **%s eddies** on %s %s.",
		common.FormatEddies(amount), emoji, bet.OptionLabel(emoji))
	if stake != nil && stake.Amount > amount {
		message += fmt.Sprintf(" Your total position is now **%s eddies**.", common.FormatEddies(stake.Amount))
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to stake: %v", err)
	}

	f.refreshBetMessage(s, bet)
}

func (f *Feature) respondStakeError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, entities.ErrBetNotAcceptingStakes):
		common.RespondWithError(s, i, "That bet is no longer accepting stakes.")
	case errors.Is(err, entities.ErrInvalidOption):
		common.RespondWithError(s, i, "That outcome is not part of this bet.")
	case strings.Contains(err.Error(), "not enough eddies"),
		strings.Contains(err.Error(), "must match previously chosen option"),
		strings.Contains(err.Error(), "must be positive"),
		strings.Contains(err.Error(), "not found"):
		common.RespondWithError(s, i, err.Error())
	default:
		log.WithError(err).Error("Stake failed")
		common.RespondWithError(s, i, "Unable to place stake. Please try again.")
	}
}

func (f *Feature) handleCloseBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var betID, winning string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet_id":
			betID = opt.StringValue()
		case "winning_outcomes":
			winning = opt.StringValue()
		}
	}

	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err != nil {
		log.WithError(err).Error("Error starting unit of work for close_bet")
		common.RespondWithError(s, i, "Unable to close bet. Please try again.")
		return
	}
	defer uow.Rollback()

	svc := buildBetService(uow)

	// Without a declared result the bet just stops accepting stakes
	if strings.TrimSpace(winning) == "" {
		if err := svc.CloseBet(ctx, betID); err != nil {
			f.respondCloseError(s, i, err)
			return
		}
		bet, _ := uow.BetRepository().GetByBetID(ctx, betID)
		if err := uow.Commit(); err != nil {
			log.WithError(err).Error("Error committing bet close")
			common.RespondWithError(s, i, "Unable to close bet. Please try again.")
			return
		}
		if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Bet %s is closed. Declare the result with /close_bet when it's known.", betID), false); err != nil {
			log.Errorf("Error responding to close_bet: %v", err)
		}
		if bet != nil {
			f.refreshBetMessage(s, bet)
		}
		return
	}

	var winningEmojis []string
	for _, part := range strings.Split(winning, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(OptionEmojis) {
			common.RespondWithError(s, i, "Winning outcomes must be outcome numbers, e.g. \"1\" or \"1,3\".")
			return
		}
		winningEmojis = append(winningEmojis, OptionEmojis[n-1])
	}

	summary, err := svc.ResolveBet(ctx, betID, winningEmojis)
	if err != nil {
		f.respondCloseError(s, i, err)
		return
	}

	bet, _ := uow.BetRepository().GetByBetID(ctx, betID)
	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Error committing bet resolution")
		common.RespondWithError(s, i, "Unable to resolve bet. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildResolveSummaryEmbed(summary), nil, false); err != nil {
		log.Errorf("Error responding to close_bet: %v", err)
	}
	if bet != nil {
		f.refreshBetMessage(s, bet)
	}
}

func (f *Feature) respondCloseError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, entities.ErrBetAlreadyResolved):
		common.RespondWithError(s, i, "That bet has already been resolved.")
	case errors.Is(err, entities.ErrInvalidOption):
		common.RespondWithError(s, i, "A winning outcome named is not part of this bet.")
	case strings.Contains(err.Error(), "not found"):
		common.RespondWithError(s, i, err.Error())
	default:
		log.WithError(err).Error("Bet close failed")
		common.RespondWithError(s, i, "Unable to close bet. Please try again.")
	}
}

func (f *Feature) handlePlaceButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// CustomID: bet_place_<betID>_<optionIdx>
	parts := strings.Split(i.MessageComponentData().CustomID, "_")
	if len(parts) != 4 {
		return
	}
	betID := parts[2]
	optionIdx := parts[3]

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: fmt.Sprintf("bet_amount_modal_%s_%s", betID, optionIdx),
			Title:    fmt.Sprintf("Stake on bet %s", betID),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "stake_amount_input",
							Label:       "Amount of eddies",
							Style:       discordgo.TextInputShort,
							Placeholder: "10",
							Required:    true,
							MinLength:   1,
							MaxLength:   12,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Errorf("Error opening stake modal: %v", err)
	}
}

func (f *Feature) handleAmountModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// CustomID: bet_amount_modal_<betID>_<optionIdx>
	parts := strings.Split(i.ModalSubmitData().CustomID, "_")
	if len(parts) != 5 {
		return
	}
	betID := parts[3]
	optionIdx, err := strconv.Atoi(parts[4])
	if err != nil || optionIdx < 0 || optionIdx >= len(OptionEmojis) {
		return
	}

	data := i.ModalSubmitData()
	if len(data.Components) == 0 {
		return
	}
	row, ok := data.Components[0].(*discordgo.ActionsRow)
	if !ok || len(row.Components) == 0 {
		return
	}
	input, ok := row.Components[0].(*discordgo.TextInput)
	if !ok {
		return
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(input.Value), 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Stake amount must be a whole number of eddies.")
		return
	}

	// Resolve the option emoji from the bet itself rather than trusting the
	// index to line up with the shared emoji pool
	emoji := OptionEmojis[optionIdx]
	uow, err := common.BeginGuildUnitOfWork(ctx, f.uowFactory, i.GuildID)
	if err == nil {
		if bet, betErr := uow.BetRepository().GetByBetID(ctx, betID); betErr == nil && bet != nil && optionIdx < len(bet.Options) {
			emoji = bet.Options[optionIdx].Emoji
		}
		uow.Rollback()
	}

	f.placeStake(s, i, betID, emoji, amount)
}

// refreshBetMessage redraws the bet embed after a state change
func (f *Feature) refreshBetMessage(s *discordgo.Session, bet *entities.Bet) {
	if bet.MessageID == 0 || bet.ChannelID == 0 {
		return
	}

	channelID := strconv.FormatInt(bet.ChannelID, 10)
	messageID := strconv.FormatInt(bet.MessageID, 10)
	embeds := []*discordgo.MessageEmbed{BuildBetEmbed(bet)}
	components := BuildBetComponents(bet)

	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.WithError(err).WithField("bet_id", bet.BetID).Warn("Could not refresh bet message")
	}
}

// RefreshBetByID reloads a bet and redraws its embed, used by event
// subscriptions that only carry the bet ID
func (f *Feature) RefreshBetByID(ctx context.Context, s *discordgo.Session, guildID int64, betID string) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Warn("Could not start unit of work for bet refresh")
		return
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetByBetID(ctx, betID)
	if err != nil || bet == nil {
		return
	}
	f.refreshBetMessage(s, bet)
}
