package identity

import (
	"github.com/smallbiznis/storefront/internal/identity/service"
	"github.com/smallbiznis/storefront/internal/identity/session"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
