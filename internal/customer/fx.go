package customer

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/factura/internal/customer/repository"
	"github.com/smallbiznis/factura/internal/customer/service"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
