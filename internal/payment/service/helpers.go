package service

import (
	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"go.uber.org/zap"
)

func pagetrim(items []*paymentdomain.PaymentRecord, limit int) ([]*paymentdomain.PaymentRecord, *pagination.PageInfo) {
	return pagination.Trim(items, limit, func(p *paymentdomain.PaymentRecord) snowflake.ID {
		return p.ID
	})
}

// runNonCritical executes a best-effort step. Failures are logged and
// swallowed so that downstream side effects can never unwind state the
// caller has already committed.
func runNonCritical(log *zap.Logger, step string, fn func() error) {
	if err := fn(); err != nil {
		log.Error("non-critical step failed",
			zap.String("step", step),
			zap.Error(err))
	}
}
