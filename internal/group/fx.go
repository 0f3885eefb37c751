package group

import (
	"github.com/lernora/lernora/internal/group/repository"
	"github.com/lernora/lernora/internal/group/service"
	"go.uber.org/fx"
)

var Module = fx.Module("group.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewAssigner),
)
