package course

import (
	"github.com/lernora/lernora/internal/course/repository"
	"github.com/lernora/lernora/internal/course/service"
	"go.uber.org/fx"
)

var Module = fx.Module("course.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
