package enrollment

import (
	"github.com/lernora/lernora/internal/enrollment/repository"
	"github.com/lernora/lernora/internal/enrollment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enrollment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
