// Package seed loads the sample catalog: two product types with three products each.
package seed

import (
	"context"
	"fmt"
	"github.com/reuben-baek/select-related/domain"
	"github.com/sirupsen/logrus"
)

type Fixture struct {
	TypeName     string
	ProductNames []string
}

var Catalog = []Fixture{
	{
		TypeName:     "type_name1",
		ProductNames: []string{"name1", "name2", "name3"},
	},
	{
		TypeName:     "type_name2",
		ProductNames: []string{"name4", "name5", "name6"},
	},
}

// Create inserts Catalog, every product type before any product. It is not idempotent and not
// transactional: a failure returns at once and rows created before it stay.
func Create(ctx context.Context, productTypeRepository domain.ProductTypeRepository, productRepository domain.ProductRepository) error {
	productTypes := make([]domain.ProductType, 0, len(Catalog))
	for _, fixture := range Catalog {
		productType, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: fixture.TypeName})
		if err != nil {
			return fmt.Errorf("create product type %s: %w", fixture.TypeName, err)
		}
		logrus.Debugf("seed.Create: product type [%d] %s", productType.ID, productType.TypeName)
		productTypes = append(productTypes, productType)
	}

	var count int
	for i, fixture := range Catalog {
		for _, name := range fixture.ProductNames {
			product, err := productRepository.Create(ctx, domain.NewProduct(name, productTypes[i]))
			if err != nil {
				return fmt.Errorf("create product %s: %w", name, err)
			}
			logrus.Debugf("seed.Create: product [%d] %s of %s", product.ID, product.Name, fixture.TypeName)
			count++
		}
	}
	logrus.Infof("seed.Create: created %d product types, %d products", len(productTypes), count)
	return nil
}
