package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lernora/lernora/internal/auth/domain"
	"github.com/lernora/lernora/internal/auth/repository"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
	balancerepository "github.com/lernora/lernora/internal/balance/repository"
	"github.com/lernora/lernora/internal/clock"
	"github.com/lernora/lernora/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T, fake *clock.FakeClock) (domain.Service, *gorm.DB) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&balancedomain.Balance{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := New(Params{
		Config: config.Config{
			SessionTTLHours: 1,
			SignupBonus:     1000,
		},
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     repository.Provide(),
		Balances: balancerepository.Provide(),
	})
	return svc, db
}

func TestRegisterCreatesUserWithSignupBonus(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, db := setupAuthService(t, fake)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Username != "alice" {
		t.Fatalf("expected username derived from email, got %s", user.Username)
	}
	if user.IsStaff {
		t.Fatal("new accounts must not be staff")
	}

	var amount int64
	if err := db.Raw(`SELECT amount FROM balances WHERE user_id = ?`, user.ID).Scan(&amount).Error; err != nil {
		t.Fatalf("read balance: %v", err)
	}
	if amount != 1000 {
		t.Fatalf("expected signup bonus 1000, got %d", amount)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)
	ctx := context.Background()

	req := domain.RegisterRequest{
		Email:    "bob@example.com",
		Password: "long-enough-password",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "carol@example.com",
		Password: "short",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "dave@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "dave@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected a session token")
	}

	user, session, err := svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
	if session.UserID != registered.ID {
		t.Fatalf("session bound to wrong user: %s", session.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "erin@example.com",
		Password: "long-enough-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "erin@example.com",
		Password: "not-the-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "frank@example.com",
		Password: "long-enough-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "frank@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fake.Advance(2 * time.Hour)

	if _, _, err := svc.Authenticate(ctx, result.RawToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := setupAuthService(t, fake)
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "grace@example.com",
		Password: "long-enough-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "grace@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, result.RawToken); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
