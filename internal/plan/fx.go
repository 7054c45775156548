package plan

import (
	"github.com/talentbill/talentbill/internal/plan/repository"
	"github.com/talentbill/talentbill/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
