package journal_fx

import (
	"go.uber.org/fx"

	"stajdefteri/internal/config"
	"stajdefteri/internal/curriculum"
	"stajdefteri/internal/planner"
	"stajdefteri/internal/repositories"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

var Module = fx.Provide(
	provideGenerator,
	curriculum.Default,
	provideWorkspace,
	provideJournalService)

func provideGenerator(cfg *config.Config) (*planner.Generator, error) {
	pc, err := cfg.PlannerConfig()
	if err != nil {
		return nil, err
	}
	pools, err := planner.DefaultTopicPools()
	if err != nil {
		return nil, err
	}
	return planner.NewGenerator(pc, pools, nil)
}

func provideWorkspace(
	store services.WorkspaceStore,
	plans repositories.IPlanRepository,
	days repositories.IDayRepository,
	log *logger.Logger,
) *services.Workspace {
	return services.NewWorkspace(store, plans, days, log)
}

func provideJournalService(
	workspace *services.Workspace,
	generator *planner.Generator,
	table *curriculum.Table,
	ai utils.GenerativeClientInterface,
	cfg *config.Config,
	log *logger.Logger,
) services.JournalServiceInterface {
	return services.NewJournalService(workspace, generator, table, ai, cfg.ContextWindow, log)
}
