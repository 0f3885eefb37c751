package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
	"github.com/lernora/lernora/internal/clock"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/internal/enrollment/domain"
	groupservice "github.com/lernora/lernora/internal/group/service"
	"github.com/lernora/lernora/internal/observability/metrics"
	pkgdb "github.com/lernora/lernora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Courses  coursedomain.Repository
	Balances balancedomain.Repository
	Assigner *groupservice.Assigner
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	courses  coursedomain.Repository
	balances balancedomain.Repository
	assigner *groupservice.Assigner
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("enrollment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		courses:  p.Courses,
		balances: p.Balances,
		assigner: p.Assigner,
		metrics:  p.Metrics,
	}
}

// Purchase runs the whole flow in a single transaction: load the course,
// conditionally debit the buyer's balance, then grant access. The debit is a
// guarded UPDATE, so two concurrent purchases can never drive the balance
// negative regardless of isolation level. Group placement happens only on
// the first purchase of a course; a repurchase re-grants access and leaves
// the group untouched.
func (s *Service) Purchase(ctx context.Context, req domain.PurchaseRequest) (domain.PurchaseResult, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	courseID, err := parseID(req.CourseID)
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	var result domain.PurchaseResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courses.FindByID(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return coursedomain.ErrNotFound
		}

		balance, err := s.balances.FindByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if balance == nil {
			return balancedomain.ErrNotFound
		}

		debited, err := s.balances.DebitIfSufficient(ctx, tx, userID, course.Price, s.clock.Now())
		if err != nil {
			return err
		}
		if !debited {
			return domain.ErrInsufficientFunds
		}
		s.metrics.RecordDebit(ctx, course.Price)

		existing, err := s.repo.FindByUserAndCourse(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if existing != nil {
			if err := s.repo.SetAccessGranted(ctx, tx, existing.ID, true, now); err != nil {
				return err
			}
			existing.AccessGranted = true
			existing.UpdatedAt = now
			result = domain.PurchaseResult{Subscription: *existing, Repurchased: true}
			return nil
		}

		sub := domain.Subscription{
			ID:            s.genID.Generate(),
			UserID:        userID,
			CourseID:      courseID,
			AccessGranted: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Insert(ctx, tx, &sub); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return domain.ErrConflict
			}
			return err
		}

		group, err := s.assigner.Assign(ctx, tx, courseID, sub.ID)
		if err != nil {
			return err
		}
		if group != nil {
			sub.GroupID = &group.ID
			s.metrics.RecordGroupAssignment(ctx)
		}

		result = domain.PurchaseResult{Subscription: sub}
		return nil
	})
	if err != nil {
		s.metrics.RecordPurchase(ctx, purchaseOutcome(err))
		return domain.PurchaseResult{}, err
	}

	if result.Repurchased {
		s.metrics.RecordPurchase(ctx, "regranted")
	} else {
		s.metrics.RecordPurchase(ctx, "granted")
	}
	s.log.Info("course purchased",
		zap.String("user_id", userID.String()),
		zap.String("course_id", courseID.String()),
		zap.Bool("repurchased", result.Repurchased),
	)
	return result, nil
}

func (s *Service) ListByUser(ctx context.Context, rawUserID string) ([]domain.SubscriptionView, error) {
	userID, err := parseID(rawUserID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.SubscriptionView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, *item)
	}
	return views, nil
}

func purchaseOutcome(err error) string {
	switch {
	case err == domain.ErrInsufficientFunds:
		return "insufficient_funds"
	case err == coursedomain.ErrNotFound || err == balancedomain.ErrNotFound:
		return "not_found"
	case err == domain.ErrConflict:
		return "conflict"
	default:
		return "error"
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
