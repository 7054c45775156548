package invoice

import (
	"github.com/talentbill/talentbill/internal/invoice/archive"
	"github.com/talentbill/talentbill/internal/invoice/render"
	"github.com/talentbill/talentbill/internal/invoice/repository"
	"github.com/talentbill/talentbill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(
		repository.Provide,
		render.NewRenderer,
		archive.NewStore,
		service.NewService,
	),
)
