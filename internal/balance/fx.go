package balance

import (
	"github.com/lernora/lernora/internal/balance/repository"
	"github.com/lernora/lernora/internal/balance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("balance.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
