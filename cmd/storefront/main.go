package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/migration"
	"github.com/smallbiznis/storefront/internal/observability"
	"github.com/smallbiznis/storefront/internal/server"
	"github.com/smallbiznis/storefront/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
		migration.Module,
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
