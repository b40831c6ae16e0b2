package transition

import (
	"github.com/smallbiznis/storefront/internal/transition/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transition.service",
	fx.Provide(service.New),
)
