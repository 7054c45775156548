package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
)

func TestWindow(t *testing.T) {
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	start, end := Window(plandomain.PeriodMonthly, now)
	require.Equal(t, now, start)
	require.NotNil(t, end)
	require.Equal(t, now.AddDate(0, 1, 0), *end)

	start, end = Window(plandomain.PeriodYearly, now)
	require.Equal(t, now, start)
	require.NotNil(t, end)
	require.Equal(t, time.Date(2027, 1, 31, 12, 0, 0, 0, time.UTC), *end)

	_, end = Window(plandomain.PeriodOneTime, now)
	require.Nil(t, end)

	_, end = Window(plandomain.PeriodForever, now)
	require.Nil(t, end)

	// Unknown periods must never expire a paid plan.
	_, end = Window(plandomain.BillingPeriod("weekly"), now)
	require.Nil(t, end)
}
