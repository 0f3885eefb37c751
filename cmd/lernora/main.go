package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/clock"
	"github.com/lernora/lernora/internal/config"
	"github.com/lernora/lernora/internal/migration"
	"github.com/lernora/lernora/internal/observability"
	"github.com/lernora/lernora/internal/server"
	"github.com/lernora/lernora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
