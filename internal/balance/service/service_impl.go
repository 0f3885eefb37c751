package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/balance/domain"
	"github.com/lernora/lernora/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("balance.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (domain.Balance, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return domain.Balance{}, err
	}

	balance, err := s.repo.FindByUserID(ctx, s.db, id)
	if err != nil {
		return domain.Balance{}, err
	}
	if balance == nil {
		return domain.Balance{}, domain.ErrNotFound
	}
	return *balance, nil
}

func (s *Service) Credit(ctx context.Context, req domain.CreditRequest) (domain.Balance, error) {
	id, err := parseUserID(req.UserID)
	if err != nil {
		return domain.Balance{}, err
	}
	if req.Amount <= 0 {
		return domain.Balance{}, domain.ErrInvalidAmount
	}

	ok, err := s.repo.Credit(ctx, s.db, id, req.Amount, s.clock.Now())
	if err != nil {
		return domain.Balance{}, err
	}
	if !ok {
		return domain.Balance{}, domain.ErrNotFound
	}

	s.log.Info("balance credited",
		zap.String("user_id", id.String()),
		zap.Int64("amount", req.Amount),
	)

	balance, err := s.repo.FindByUserID(ctx, s.db, id)
	if err != nil {
		return domain.Balance{}, err
	}
	if balance == nil {
		return domain.Balance{}, domain.ErrNotFound
	}
	return *balance, nil
}

func parseUserID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidUser
	}
	return id, nil
}
