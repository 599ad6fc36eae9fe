package salary

import (
	"bsebot/domain/interfaces"
	"bsebot/domain/services"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func New(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{
		uowFactory: uowFactory,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePreview(s, i)
}

func buildSalaryService(uow interfaces.UnitOfWork) interfaces.SalaryService {
	userService := services.NewUserService(uow.UserRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	return services.NewSalaryService(
		uow.UserRepository(),
		uow.InteractionRepository(),
		uow.WordleRepository(),
		uow.SalaryRunRepository(),
		uow.GuildSettingsRepository(),
		userService,
	)
}
