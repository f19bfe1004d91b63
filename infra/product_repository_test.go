package infra_test

import (
	"context"
	"github.com/reuben-baek/select-related/config"
	"github.com/reuben-baek/select-related/data"
	"github.com/reuben-baek/select-related/database"
	"github.com/reuben-baek/select-related/domain"
	"github.com/reuben-baek/select-related/infra"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"path/filepath"
	"strings"
	"testing"
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

func getGormDB(t *testing.T) *gorm.DB {
	db, err := database.Open(
		config.Database{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "infra.db")},
		database.NewLogger(true),
	)
	require.Nil(t, err)
	t.Cleanup(func() {
		database.Close(db)
	})
	require.Nil(t, infra.Migrate(db))
	return db
}

func TestProductRepository(t *testing.T) {
	db := getGormDB(t)
	transactionManager := data.NewGormTransactionManager(db)
	productTypeRepository := infra.NewGormProductTypeRepository(transactionManager)
	productRepository := infra.NewGormProductRepository(transactionManager, data.FetchLazyMode)

	ctx := context.Background()
	typeName1, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name1"})
	require.Nil(t, err)
	assert.NotEmpty(t, typeName1.ID)
	typeName2, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name2"})
	require.Nil(t, err)

	name1, err := productRepository.Create(ctx, domain.NewProduct("name1", typeName1))
	require.Nil(t, err)
	assert.NotEmpty(t, name1.ID)
	assert.Equal(t, typeName1, name1.ProductType.Get())

	_, err = productRepository.Create(ctx, domain.NewProduct("name2", typeName1))
	require.Nil(t, err)
	_, err = productRepository.Create(ctx, domain.NewProduct("name4", typeName2))
	require.Nil(t, err)

	t.Run("find-one", func(t *testing.T) {
		found, err := productRepository.FindOne(ctx, name1.ID)
		require.Nil(t, err)
		assert.Equal(t, "name1", found.Name)
		assert.Equal(t, typeName1, found.ProductType.Get())
		assert.Nil(t, found.ProductType.Err())
	})
	t.Run("find-one not found", func(t *testing.T) {
		_, err := productRepository.FindOne(ctx, 1000)
		assert.ErrorIs(t, err, data.NotFoundError)
	})
	t.Run("products of product type", func(t *testing.T) {
		products, err := productRepository.FindByProductType(ctx, typeName1)
		require.Nil(t, err)
		require.Equal(t, 2, len(products))
		assert.Equal(t, "name1", products[0].Name)
		assert.Equal(t, "name2", products[1].Name)
		for _, p := range products {
			assert.Equal(t, typeName1, p.ProductType.Get())
		}

		products, err = productRepository.FindByProductType(ctx, typeName2)
		require.Nil(t, err)
		assert.Equal(t, 1, len(products))
	})
	t.Run("update", func(t *testing.T) {
		found, err := productRepository.FindOne(ctx, name1.ID)
		require.Nil(t, err)
		found.Name = "name1-renamed"
		found.ProductType = data.LazyLoadValue(typeName2)

		updated, err := productRepository.Update(ctx, found)
		require.Nil(t, err)
		assert.Equal(t, "name1-renamed", updated.Name)
		assert.Equal(t, typeName2, updated.ProductType.Get())

		products, err := productRepository.FindByProductType(ctx, typeName2)
		require.Nil(t, err)
		assert.Equal(t, 2, len(products))
	})
	t.Run("find-all", func(t *testing.T) {
		products, err := productRepository.FindAll(ctx)
		require.Nil(t, err)
		assert.Equal(t, 3, len(products))

		productTypes, err := productTypeRepository.FindAll(ctx)
		require.Nil(t, err)
		assert.Equal(t, []domain.ProductType{typeName1, typeName2}, productTypes)
	})
}

func TestProductRepository_Constraints(t *testing.T) {
	db := getGormDB(t)
	transactionManager := data.NewGormTransactionManager(db)
	productTypeRepository := infra.NewGormProductTypeRepository(transactionManager)
	productRepository := infra.NewGormProductRepository(transactionManager, data.FetchLazyMode)

	ctx := context.Background()
	typeName1, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name1"})
	require.Nil(t, err)

	t.Run("name of max length", func(t *testing.T) {
		_, err := productRepository.Create(ctx, domain.NewProduct(strings.Repeat("n", infra.MaxNameLength), typeName1))
		assert.Nil(t, err)
		_, err = productTypeRepository.Create(ctx, domain.ProductType{TypeName: strings.Repeat("t", infra.MaxNameLength)})
		assert.Nil(t, err)
	})
	t.Run("name too long", func(t *testing.T) {
		_, err := productRepository.Create(ctx, domain.NewProduct(strings.Repeat("n", infra.MaxNameLength+1), typeName1))
		assert.NotNil(t, err)
	})
	t.Run("type name too long", func(t *testing.T) {
		_, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: strings.Repeat("t", infra.MaxNameLength+1)})
		assert.NotNil(t, err)
	})
	t.Run("missing product type", func(t *testing.T) {
		_, err := productRepository.Create(ctx, domain.Product{Name: "orphan"})
		assert.NotNil(t, err)
	})
	t.Run("unknown product type", func(t *testing.T) {
		_, err := productRepository.Create(ctx, domain.NewProduct("orphan", domain.ProductType{ID: 1000}))
		assert.NotNil(t, err)
	})

	var count int64
	require.Nil(t, db.Model(&infra.Product{}).Where("name = ?", "orphan").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestProductRepository_CascadeDelete(t *testing.T) {
	db := getGormDB(t)
	transactionManager := data.NewGormTransactionManager(db)
	productTypeRepository := infra.NewGormProductTypeRepository(transactionManager)
	productRepository := infra.NewGormProductRepository(transactionManager, data.FetchLazyMode)

	ctx := context.Background()
	typeName1, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name1"})
	require.Nil(t, err)
	typeName2, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name2"})
	require.Nil(t, err)
	for _, p := range []domain.Product{
		domain.NewProduct("name1", typeName1),
		domain.NewProduct("name2", typeName1),
		domain.NewProduct("name3", typeName2),
	} {
		_, err := productRepository.Create(ctx, p)
		require.Nil(t, err)
	}

	t.Run("repository delete", func(t *testing.T) {
		require.Nil(t, productTypeRepository.Delete(ctx, typeName1))

		products, err := productRepository.FindAll(ctx)
		require.Nil(t, err)
		require.Equal(t, 1, len(products))
		assert.Equal(t, "name3", products[0].Name)

		_, err = productTypeRepository.FindOne(ctx, typeName1.ID)
		assert.ErrorIs(t, err, data.NotFoundError)
	})
	t.Run("plain delete", func(t *testing.T) {
		require.Nil(t, db.Delete(&infra.ProductType{ID: typeName2.ID}).Error)

		var count int64
		require.Nil(t, db.Model(&infra.Product{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestProductRepository_FetchMode(t *testing.T) {
	db := getGormDB(t)
	counter := data.NewQueryCounter()
	require.Nil(t, counter.Register(db))

	transactionManager := data.NewGormTransactionManager(db)
	productTypeRepository := infra.NewGormProductTypeRepository(transactionManager)
	ctx := context.Background()
	typeName1, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name1"})
	require.Nil(t, err)
	typeName2, err := productTypeRepository.Create(ctx, domain.ProductType{TypeName: "type_name2"})
	require.Nil(t, err)
	productRepository := infra.NewGormProductRepository(transactionManager, data.FetchLazyMode)
	for i, name := range []string{"name1", "name2", "name3", "name4", "name5", "name6"} {
		productType := typeName1
		if i >= 3 {
			productType = typeName2
		}
		_, err := productRepository.Create(ctx, domain.NewProduct(name, productType))
		require.Nil(t, err)
	}

	for _, tc := range []struct {
		mode    data.FetchMode
		queries int64
	}{
		{data.FetchLazyMode, 7},
		{data.FetchEagerMode, 2},
		{data.FetchJoinMode, 1},
	} {
		t.Run(string(tc.mode), func(t *testing.T) {
			productRepository := infra.NewGormProductRepository(transactionManager, tc.mode)
			counter.Reset()

			products, err := productRepository.FindAll(ctx)
			require.Nil(t, err)
			require.Equal(t, 6, len(products))
			typeNames := make([]string, 0, len(products))
			for _, p := range products {
				typeNames = append(typeNames, p.ProductType.Get().TypeName)
			}
			assert.Equal(t, []string{"type_name1", "type_name1", "type_name1", "type_name2", "type_name2", "type_name2"}, typeNames)
			assert.Equal(t, tc.queries, counter.Count())
		})
	}
}
