package employer

import (
	"github.com/talentbill/talentbill/internal/employer/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("employer",
	fx.Provide(repository.Provide),
)
