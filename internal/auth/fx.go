package auth

import (
	"github.com/lernora/lernora/internal/auth/repository"
	"github.com/lernora/lernora/internal/auth/service"
	"github.com/lernora/lernora/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
