package revolution

import (
	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the weekly revolution embed and its faction buttons
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func New(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{
		uowFactory: uowFactory,
	}
}

// HandleCommand handles the /revolution status and /pledge commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "revolution":
		f.handleStatus(s, i)
	case "pledge":
		f.handlePledge(s, i)
	}
}

// HandleInteraction handles the faction and SAVE THYSELF buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	f.handleButton(s, i)
}

func buildRevolutionService(uow interfaces.UnitOfWork) interfaces.RevolutionService {
	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewRevolutionService(
		uow.RevolutionRepository(),
		uow.UserRepository(),
		uow.GuildSettingsRepository(),
		userService,
		uow.EventBus(),
	)
}
