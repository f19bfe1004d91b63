package infra

import (
	"context"
	"github.com/reuben-baek/select-related/data"
	"github.com/reuben-baek/select-related/domain"
)

type ProductRepository struct {
	data.Repository[domain.Product, uint]
	productTypeBelongToRepository data.FindByRepository[domain.Product, domain.ProductType]
}

func NewProductRepository(
	repository data.Repository[domain.Product, uint],
	productTypeBelongToRepository data.FindByRepository[domain.Product, domain.ProductType],
) *ProductRepository {
	return &ProductRepository{
		Repository:                    repository,
		productTypeBelongToRepository: productTypeBelongToRepository,
	}
}

// NewGormProductRepository wires a ProductRepository fetching ProductType by productTypeFetchMode.
func NewGormProductRepository(transactionManager data.TransactionManager, productTypeFetchMode data.FetchMode) *ProductRepository {
	productGormRepository := data.NewGormRepository[Product, uint](transactionManager).
		WithFetchMode("ProductType", productTypeFetchMode)
	return NewProductRepository(
		data.NewDtoWrapRepository[Product, domain.Product, uint](productGormRepository),
		data.NewDtoWrapFindByRepository[Product, domain.Product, ProductType, domain.ProductType](
			data.NewGormFindByRepository[Product, ProductType, uint](productGormRepository),
		),
	)
}

func (p *ProductRepository) FindByProductType(ctx context.Context, productType domain.ProductType) ([]domain.Product, error) {
	return p.productTypeBelongToRepository.FindBy(ctx, "ProductType", productType)
}
