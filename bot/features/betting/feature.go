package betting

import (
	"strings"

	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the bet lifecycle commands and the place-stake buttons
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func New(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{
		uowFactory: uowFactory,
	}
}

// HandleCommand routes the bet slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "create_bet":
		f.handleCreateBet(s, i)
	case "place_bet":
		f.handlePlaceBet(s, i)
	case "close_bet":
		f.handleCloseBet(s, i)
	}
}

// HandleInteraction handles bet component interactions and the stake modal
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		if strings.HasPrefix(i.MessageComponentData().CustomID, "bet_place_") {
			f.handlePlaceButton(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if strings.HasPrefix(i.ModalSubmitData().CustomID, "bet_amount_modal_") {
			f.handleAmountModal(s, i)
		}
	}
}

// buildBetService wires a bet service from the unit of work's repositories
func buildBetService(uow interfaces.UnitOfWork) interfaces.BetService {
	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewBetService(
		uow.BetRepository(),
		uow.UserRepository(),
		uow.GuildSettingsRepository(),
		userService,
		uow.EventBus(),
	)
}
