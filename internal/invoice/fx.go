package invoice

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/factura/internal/catalog"
	"github.com/smallbiznis/factura/internal/invoice/sequence"
	"github.com/smallbiznis/factura/internal/invoice/service"
	"github.com/smallbiznis/factura/internal/providers/pdf"
)

var Module = fx.Module("invoice.service",
	catalog.Module,
	pdf.Module,
	fx.Provide(sequence.New),
	fx.Provide(service.NewService),
)
