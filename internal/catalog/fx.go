package catalog

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/factura/internal/catalog/repository"
)

var Module = fx.Module("catalog.resolver",
	fx.Provide(repository.Provide),
)
