package advisor

import (
	"github.com/smallbiznis/storefront/internal/advisor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("advisor.service",
	fx.Provide(service.New),
)
