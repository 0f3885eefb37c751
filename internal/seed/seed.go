// Package seed bootstraps local and self-hosted deployments with a staff
// account and an optional demo catalog.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/lernora/lernora/internal/auth/domain"
	"github.com/lernora/lernora/internal/auth/password"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	groupdomain "github.com/lernora/lernora/internal/group/domain"
	"gorm.io/gorm"
)

// EnsureStaffUser creates the bootstrap staff account when it does not
// exist. The account gets a balance row like any other user so staff can
// exercise the purchase flow against a local install.
func EnsureStaffUser(db *gorm.DB, email, rawPassword string, signupBonus int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("staff email is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		if err := tx.WithContext(ctx).Raw(
			`SELECT id FROM users WHERE email = ?`, email,
		).Scan(&existing).Error; err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		hashed, err := password.Hash(rawPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := authdomain.User{
			ID:           node.Generate(),
			Email:        email,
			Username:     "staff",
			PasswordHash: &hashed,
			IsStaff:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}

		balance := balancedomain.Balance{
			ID:        node.Generate(),
			UserID:    user.ID,
			Amount:    signupBonus,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.WithContext(ctx).Create(&balance).Error
	})
}

// EnsureDemoCatalog seeds a small course catalog with lessons and study
// groups. Idempotent: it keys off the demo course slugs.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	type demoCourse struct {
		title   string
		author  string
		price   int64
		lessons []string
		groups  []string
	}
	catalog := []demoCourse{
		{
			title:   "Intro to Backend Engineering",
			author:  "Lernora Team",
			price:   500,
			lessons: []string{"HTTP from first principles", "Databases and transactions", "Designing APIs"},
			groups:  []string{"Cohort A", "Cohort B"},
		},
		{
			title:   "Practical SQL",
			author:  "Lernora Team",
			price:   300,
			lessons: []string{"Joins and aggregates", "Indexes in anger"},
			groups:  []string{"Morning group", "Evening group"},
		},
		{
			title:  "Free Orientation",
			author: "Lernora Team",
			price:  0,
		},
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, entry := range catalog {
			courseSlug := slug.Make(entry.title)

			var existing coursedomain.Course
			if err := tx.WithContext(ctx).Raw(
				`SELECT id FROM courses WHERE slug = ?`, courseSlug,
			).Scan(&existing).Error; err != nil {
				return err
			}
			if existing.ID != 0 {
				continue
			}

			course := coursedomain.Course{
				ID:        node.Generate(),
				Title:     entry.title,
				Slug:      courseSlug,
				Author:    entry.author,
				Price:     entry.price,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.WithContext(ctx).Create(&course).Error; err != nil {
				return err
			}

			for i, title := range entry.lessons {
				lesson := coursedomain.Lesson{
					ID:        node.Generate(),
					CourseID:  course.ID,
					Title:     title,
					Position:  i + 1,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.WithContext(ctx).Create(&lesson).Error; err != nil {
					return err
				}
			}

			for _, title := range entry.groups {
				group := groupdomain.Group{
					ID:        node.Generate(),
					CourseID:  course.ID,
					Title:     title,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.WithContext(ctx).Create(&group).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
