package infra

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate creates or upgrades product_types and products, with the cascading foreign key
// products.product_type_id -> product_types.id.
func Migrate(db *gorm.DB) error {
	logrus.Infof("infra.Migrate: migrating product_types, products on %s", db.Dialector.Name())
	if err := db.AutoMigrate(&ProductType{}, &Product{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
