package payment

import (
	"github.com/talentbill/talentbill/internal/config"
	"github.com/talentbill/talentbill/internal/payment/gateway"
	"github.com/talentbill/talentbill/internal/payment/repository"
	"github.com/talentbill/talentbill/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(gateway.NewClient),
	fx.Provide(func(cfg config.Config) *gateway.Verifier {
		return gateway.NewVerifier(cfg.Gateway.KeySecret)
	}),
	fx.Provide(service.NewService),
)
