package businessmode

import (
	"github.com/smallbiznis/storefront/internal/businessmode/repository"
	"github.com/smallbiznis/storefront/internal/businessmode/service"
	"go.uber.org/fx"
)

var Module = fx.Module("businessmode.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
