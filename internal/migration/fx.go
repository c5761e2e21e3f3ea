package migration

import (
	catalogdomain "github.com/smallbiznis/factura/internal/catalog/domain"
	"github.com/smallbiznis/factura/internal/config"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Embedded migrations are written for postgres. Other dialects
		// build the same schema from the models.
		return AutoMigrate(conn)
	}),
)

// AutoMigrate creates the invoicing schema from the gorm models. Used by
// non-postgres dialects and by tests.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&customerdomain.Customer{},
		&catalogdomain.Product{},
		&catalogdomain.ProductVariant{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&invoicedomain.InvoiceVatBracket{},
		&invoicedomain.InvoiceTax{},
		&invoicedomain.SequenceCounter{},
	)
}
