package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/clock"
	"github.com/lernora/lernora/internal/group/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Assigner places a newly created subscription into the least-loaded group
// of its course. Placement is sticky: once a subscription carries a group it
// is never reassigned, and repurchases never reach this code path.
type Assigner struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

type AssignerParams struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

func NewAssigner(p AssignerParams) *Assigner {
	return &Assigner{
		log:   p.Log.Named("group.assigner"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Assign picks the course group with the fewest members (lowest ID on ties)
// and links the subscription to it. A course without groups is a valid
// terminal state: the subscription keeps a NULL group and no error is
// returned. Counts are recomputed on every call; concurrent first-time
// purchases may transiently overfill a group, which the relaxed-balance
// contract allows.
//
// Callers run Assign inside the purchase transaction so a failed commit
// rolls the link back together with everything else.
func (a *Assigner) Assign(ctx context.Context, tx *gorm.DB, courseID, subscriptionID snowflake.ID) (*domain.Group, error) {
	group, err := a.repo.FindLeastLoaded(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		a.log.Debug("course has no groups, leaving subscription unassigned",
			zap.String("course_id", courseID.String()),
			zap.String("subscription_id", subscriptionID.String()),
		)
		return nil, nil
	}

	// The NULL guard makes stickiness structural: a subscription that
	// already carries a group is never rewritten.
	result := tx.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET group_id = ?, updated_at = ?
		 WHERE id = ? AND group_id IS NULL`,
		group.ID,
		a.clock.Now(),
		subscriptionID,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	a.log.Info("subscription assigned to group",
		zap.String("course_id", courseID.String()),
		zap.String("subscription_id", subscriptionID.String()),
		zap.String("group_id", group.ID.String()),
	)
	return group, nil
}
