package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  plandomain.Repository
	Redis *redis.Client `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  plandomain.Repository
	redis *redis.Client
}

func NewService(p Params) plandomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		repo:  p.Repo,
		redis: p.Redis,
	}
}

func (s *Service) Lookup(ctx context.Context, code string) (*plandomain.PlanDefinition, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, plandomain.ErrPlanNotFound
	}

	if cached := s.fromCache(ctx, code); cached != nil {
		if !cached.IsActive || !cached.IsAvailable {
			return nil, plandomain.ErrPlanNotFound
		}
		return cached, nil
	}

	p, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive || !p.IsAvailable {
		return nil, plandomain.ErrPlanNotFound
	}

	s.toCache(ctx, p)
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*plandomain.PlanDefinition, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) fromCache(ctx context.Context, code string) *plandomain.PlanDefinition {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		return nil
	}
	var p plandomain.PlanDefinition
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

func (s *Service) toCache(ctx context.Context, p *plandomain.PlanDefinition) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(p.Code), raw, cacheTTL).Err(); err != nil {
		s.log.Debug("plan cache write failed", zap.Error(err))
	}
}

func cacheKey(code string) string { return "plan:" + code }
