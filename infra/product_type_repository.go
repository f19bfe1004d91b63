package infra

import (
	"github.com/reuben-baek/select-related/data"
	"github.com/reuben-baek/select-related/domain"
)

type ProductTypeRepository struct {
	data.Repository[domain.ProductType, uint]
}

func NewProductTypeRepository(repository data.Repository[domain.ProductType, uint]) *ProductTypeRepository {
	return &ProductTypeRepository{Repository: repository}
}

func NewGormProductTypeRepository(transactionManager data.TransactionManager) *ProductTypeRepository {
	return NewProductTypeRepository(
		data.NewDtoWrapRepository[ProductType, domain.ProductType, uint](
			data.NewGormRepository[ProductType, uint](transactionManager),
		),
	)
}
