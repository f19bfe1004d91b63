package infra

import (
	"github.com/reuben-baek/select-related/data"
	"github.com/reuben-baek/select-related/domain"
)

// MaxNameLength bounds type_name and name. The check constraints enforce it on databases ignoring varchar sizes.
const MaxNameLength = 100

type ProductType struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	TypeName string `gorm:"column:type_name;size:100;not null;check:chk_product_types_type_name,length(type_name) <= 100"`
}

func (t ProductType) To() domain.ProductType {
	return domain.ProductType{
		ID:       t.ID,
		TypeName: t.TypeName,
	}
}

func (t ProductType) From(m domain.ProductType) any {
	t.ID = m.ID
	t.TypeName = m.TypeName
	return t
}

type Product struct {
	data.LazyLoader `gorm:"-"`
	ID              uint        `gorm:"primaryKey;column:id"`
	Name            string      `gorm:"column:name;size:100;not null;check:chk_products_name,length(name) <= 100"`
	ProductTypeID   uint        `gorm:"column:product_type_id;not null;index"`
	ProductType     ProductType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (p Product) To() domain.Product {
	return domain.Product{
		ID:   p.ID,
		Name: p.Name,
		ProductType: data.LazyLoadFn[domain.ProductType](func() (any, error) {
			if productType, err := data.LazyLoadNow[ProductType]("ProductType", &p); err != nil {
				return nil, err
			} else {
				return productType.To(), nil
			}
		}),
	}
}

func (p Product) From(m domain.Product) any {
	p.ID = m.ID
	p.Name = m.Name
	if m.ProductType != nil {
		p.ProductTypeID = m.ProductType.Get().ID
	}
	return p
}
