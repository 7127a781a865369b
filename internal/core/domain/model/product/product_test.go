package product_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock int) *product.Product {
	t.Helper()

	p, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(), "Aura Headphones", 29900, stock)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	id := kernel.NewUUID()
	vendorID := kernel.NewUUID()

	t.Run("should create valid product", func(t *testing.T) {
		p, err := product.NewProduct(id, vendorID, "Aura Headphones", 29900, 12)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.True(t, p.ID().IsEqual(id))
		assert.True(t, p.Vendor().IsEqual(vendorID))
		assert.Equal(t, "Aura Headphones", p.Name())
		assert.Equal(t, int64(29900), p.UnitPrice())
		assert.Equal(t, 12, p.Stock())
	})

	t.Run("should accept zero stock", func(t *testing.T) {
		p, err := product.NewProduct(id, vendorID, "Aura Headphones", 29900, 0)

		require.NoError(t, err)
		assert.Equal(t, 0, p.Stock())
	})

	t.Run("should fail with invalid IDs", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := product.NewProduct(invalidID, vendorID, "Aura Headphones", 29900, 1)
		require.Error(t, err)

		_, err = product.NewProduct(id, invalidID, "Aura Headphones", 29900, 1)
		require.Error(t, err)
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		_, err := product.NewProduct(id, vendorID, "", 29900, 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "product name")
	})

	t.Run("should fail with negative price or stock", func(t *testing.T) {
		_, err := product.NewProduct(id, vendorID, "Aura Headphones", -1, 1)
		require.Error(t, err)

		_, err = product.NewProduct(id, vendorID, "Aura Headphones", 29900, -1)
		require.Error(t, err)
	})
}

func TestProduct_Reserve(t *testing.T) {
	t.Run("reserves available stock", func(t *testing.T) {
		p := newTestProduct(t, 5)

		require.NoError(t, p.Reserve(3))
		assert.Equal(t, 2, p.Stock())
	})

	t.Run("reserving the last unit empties the stock", func(t *testing.T) {
		p := newTestProduct(t, 1)

		require.NoError(t, p.Reserve(1))
		assert.Equal(t, 0, p.Stock())
	})

	t.Run("over-reservation fails and stock is unchanged", func(t *testing.T) {
		p := newTestProduct(t, 2)

		err := p.Reserve(3)

		require.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Equal(t, 2, p.Stock())
	})

	t.Run("reservation from empty stock fails", func(t *testing.T) {
		p := newTestProduct(t, 0)

		err := p.Reserve(1)

		require.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Equal(t, 0, p.Stock())
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		p := newTestProduct(t, 5)

		require.Error(t, p.Reserve(0))
		require.Error(t, p.Reserve(-1))
		assert.Equal(t, 5, p.Stock())
	})
}

func TestProduct_Release(t *testing.T) {
	t.Run("release adds stock back", func(t *testing.T) {
		p := newTestProduct(t, 5)
		require.NoError(t, p.Reserve(5))

		require.NoError(t, p.Release(5))
		assert.Equal(t, 5, p.Stock())
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		p := newTestProduct(t, 5)

		require.Error(t, p.Release(0))
		require.Error(t, p.Release(-2))
		assert.Equal(t, 5, p.Stock())
	})
}

func TestProduct_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var p *product.Product

		require.Error(t, p.Validate())
		assert.Equal(t, product.ErrProductIsNotConstructed, (&product.Product{}).Validate())
	})
}
