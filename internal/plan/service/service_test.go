package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"github.com/talentbill/talentbill/internal/plan/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T, redis *goredis.Client) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plandomain.PlanDefinition{}))

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		repo:  repository.Provide(db),
		redis: redis,
	}
	return svc, db
}

func seedPlan(t *testing.T, db *gorm.DB, code string, active, available bool) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&plandomain.PlanDefinition{
		Code:        code,
		Name:        code,
		PriceAmount: 2499,
		Currency:    "INR",
		Period:      plandomain.PeriodMonthly,
		IsActive:    active,
		IsAvailable: available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error)
}

func TestLookup_NormalizesCode(t *testing.T) {
	svc, db := newService(t, nil)
	seedPlan(t, db, "basic", true, true)

	p, err := svc.Lookup(context.Background(), "  Basic ")
	require.NoError(t, err)
	require.Equal(t, "basic", p.Code)
	require.Equal(t, int64(249900), p.AmountMinorUnits())
}

func TestLookup_InactiveOrUnavailableHidden(t *testing.T) {
	svc, db := newService(t, nil)
	seedPlan(t, db, "retired", false, true)
	seedPlan(t, db, "soldout", true, false)

	_, err := svc.Lookup(context.Background(), "retired")
	require.ErrorIs(t, err, plandomain.ErrPlanNotFound)

	_, err = svc.Lookup(context.Background(), "soldout")
	require.ErrorIs(t, err, plandomain.ErrPlanNotFound)

	_, err = svc.Lookup(context.Background(), "")
	require.ErrorIs(t, err, plandomain.ErrPlanNotFound)
}

func TestLookup_ServesFromCache(t *testing.T) {
	mini := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})

	svc, db := newService(t, client)
	seedPlan(t, db, "basic", true, true)

	p, err := svc.Lookup(context.Background(), "basic")
	require.NoError(t, err)
	require.True(t, mini.Exists("plan:basic"))

	// A database-side change is invisible until the cache entry expires.
	require.NoError(t, db.Model(&plandomain.PlanDefinition{}).Where("code = ?", "basic").Update("price_amount", 9999).Error)

	cached, err := svc.Lookup(context.Background(), "basic")
	require.NoError(t, err)
	require.Equal(t, p.PriceAmount, cached.PriceAmount)

	mini.FastForward(cacheTTL + time.Second)
	fresh, err := svc.Lookup(context.Background(), "basic")
	require.NoError(t, err)
	require.Equal(t, int64(9999), fresh.PriceAmount)
}

func TestLookup_RedisDownFallsBackToDatabase(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})

	svc, db := newService(t, client)
	seedPlan(t, db, "basic", true, true)

	p, err := svc.Lookup(context.Background(), "basic")
	require.NoError(t, err)
	require.Equal(t, "basic", p.Code)
}
