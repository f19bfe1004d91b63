package domain

import (
	"context"
	"github.com/reuben-baek/select-related/data"
)

type ProductType struct {
	ID       uint
	TypeName string
}

type Product struct {
	ID          uint
	Name        string
	ProductType data.Lazy[ProductType] // belong-to
}

func NewProduct(name string, productType ProductType) Product {
	return Product{
		Name:        name,
		ProductType: data.LazyLoadValue(productType),
	}
}

type ProductTypeRepository interface {
	data.Repository[ProductType, uint]
}

// ProductRepository is a belong-to or many-to-one association of Product to ProductType.
// FindByProductType is the "products" collection of a ProductType, queried by foreign key.
type ProductRepository interface {
	data.Repository[Product, uint]
	FindByProductType(ctx context.Context, productType ProductType) ([]Product, error)
}
