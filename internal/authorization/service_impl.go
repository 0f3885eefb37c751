package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCourse       = "course"
	ObjectLesson       = "lesson"
	ObjectGroup        = "group"
	ObjectBalance      = "balance"
	ObjectSubscription = "subscription"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	// Purchase is distinct from create: students may purchase a course
	// for themselves but never create subscription rows directly.
	ActionPurchase = "purchase"

	ActionBalanceCredit = "credit"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Enforcer      *casbin.SyncedEnforcer
	Subscriptions enrollmentdomain.Repository
}

type ServiceImpl struct {
	db            *gorm.DB
	log           *zap.Logger
	enforcer      *casbin.SyncedEnforcer
	subscriptions enrollmentdomain.Repository
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:            p.DB,
		log:           p.Log.Named("authorization.service"),
		enforcer:      p.Enforcer,
		subscriptions: p.Subscriptions,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) RequireActiveSubscription(ctx context.Context, rawUserID string, rawCourseID string) error {
	userID, err := snowflake.ParseString(strings.TrimSpace(rawUserID))
	if err != nil || userID == 0 {
		return ErrInvalidActor
	}
	courseID, err := snowflake.ParseString(strings.TrimSpace(rawCourseID))
	if err != nil || courseID == 0 {
		return ErrInvalidObject
	}

	staff, err := s.isStaff(ctx, userID)
	if err != nil {
		return err
	}
	if staff {
		return nil
	}

	active, err := s.subscriptions.HasActiveSubscription(ctx, s.db, userID, courseID)
	if err != nil {
		return err
	}
	if !active {
		return ErrNoActiveSubscription
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string) (string, string, error) {
	if !strings.HasPrefix(actor, "user:") {
		return "", "", ErrInvalidActor
	}
	userIDRaw := strings.TrimPrefix(actor, "user:")
	userID, err := snowflake.ParseString(userIDRaw)
	if err != nil || userID == 0 {
		return "", "", ErrInvalidActor
	}

	staff, err := s.isStaff(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if staff {
		return actor, "role:staff", nil
	}
	return actor, "role:student", nil
}

func (s *ServiceImpl) isStaff(ctx context.Context, userID snowflake.ID) (bool, error) {
	var row struct {
		IsStaff bool `gorm:"column:is_staff"`
		Found   bool `gorm:"column:found"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT is_staff, ? AS found FROM users WHERE id = ? LIMIT 1`,
		true,
		userID,
	).Scan(&row).Error; err != nil {
		return false, err
	}
	if !row.Found {
		return false, ErrInvalidActor
	}
	return row.IsStaff, nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		// Role can change when an account is promoted to staff; drop the
		// stale grouping.
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Students read the catalog and purchase for themselves.
		{"role:student", ObjectCourse, ActionView},
		{"role:student", ObjectLesson, ActionView},
		{"role:student", ObjectGroup, ActionView},
		{"role:student", ObjectCourse, ActionPurchase},
		{"role:student", ObjectBalance, ActionView},
		{"role:student", ObjectSubscription, ActionView},

		// Staff manage everything.
		{"role:staff", ObjectCourse, ActionView},
		{"role:staff", ObjectCourse, ActionCreate},
		{"role:staff", ObjectCourse, ActionUpdate},
		{"role:staff", ObjectCourse, ActionDelete},
		{"role:staff", ObjectCourse, ActionPurchase},

		{"role:staff", ObjectLesson, ActionView},
		{"role:staff", ObjectLesson, ActionCreate},
		{"role:staff", ObjectLesson, ActionUpdate},
		{"role:staff", ObjectLesson, ActionDelete},

		{"role:staff", ObjectGroup, ActionView},
		{"role:staff", ObjectGroup, ActionCreate},
		{"role:staff", ObjectGroup, ActionDelete},

		{"role:staff", ObjectBalance, ActionView},
		{"role:staff", ObjectBalance, ActionBalanceCredit},

		{"role:staff", ObjectSubscription, ActionView},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
