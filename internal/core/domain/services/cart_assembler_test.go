package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProduct(t *testing.T, vendorID kernel.UUID, name string, price int64) *product.Product {
	t.Helper()

	p, err := product.NewProduct(kernel.NewUUID(), vendorID, name, price, 10)
	require.NoError(t, err)
	return p
}

func TestCartAssembler_Assemble(t *testing.T) {
	assembler := services.NewCartAssembler()
	vendorID := kernel.NewUUID()

	t.Run("assembles snapshot lines in cart order", func(t *testing.T) {
		headphones := makeProduct(t, vendorID, "Aura Headphones", 29900)
		watch := makeProduct(t, vendorID, "Aura Smartwatch", 19900)

		gotVendor, lines, err := assembler.Assemble(
			[]*product.Product{headphones, watch},
			[]int{1, 2},
		)

		require.NoError(t, err)
		assert.True(t, gotVendor.IsEqual(vendorID))
		require.Len(t, lines, 2)

		assert.True(t, lines[0].ProductID().IsEqual(headphones.ID()))
		assert.Equal(t, "Aura Headphones", lines[0].Name())
		assert.Equal(t, int64(29900), lines[0].UnitPrice())
		assert.Equal(t, 1, lines[0].Quantity())

		assert.Equal(t, "Aura Smartwatch", lines[1].Name())
		assert.Equal(t, 2, lines[1].Quantity())
	})

	t.Run("lines are snapshots - later price changes leave them untouched", func(t *testing.T) {
		p := makeProduct(t, vendorID, "Aura Headphones", 29900)

		_, lines, err := assembler.Assemble([]*product.Product{p}, []int{1})
		require.NoError(t, err)

		// The line keeps the price it was assembled with even when the
		// catalog product is replaced by a repriced version.
		repriced, err := product.RestoreProduct(p.ID(), p.Vendor(), p.Name(), 9900, p.Stock())
		require.NoError(t, err)
		assert.Equal(t, int64(9900), repriced.UnitPrice())
		assert.Equal(t, int64(29900), lines[0].UnitPrice())
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, _, err := assembler.Assemble(nil, nil)

		require.ErrorIs(t, err, services.ErrEmptyCart)
	})

	t.Run("rejects mixed-vendor cart", func(t *testing.T) {
		first := makeProduct(t, vendorID, "Aura Headphones", 29900)
		second := makeProduct(t, kernel.NewUUID(), "Rival Speaker", 9900)

		_, _, err := assembler.Assemble(
			[]*product.Product{first, second},
			[]int{1, 1},
		)

		require.ErrorIs(t, err, services.ErrMultiVendorCart)
	})

	t.Run("rejects mismatched slice lengths", func(t *testing.T) {
		p := makeProduct(t, vendorID, "Aura Headphones", 29900)

		_, _, err := assembler.Assemble([]*product.Product{p}, []int{1, 2})

		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		p := makeProduct(t, vendorID, "Aura Headphones", 29900)

		_, _, err := assembler.Assemble([]*product.Product{p}, []int{0})

		require.Error(t, err)
	})

	t.Run("rejects unconstructed product", func(t *testing.T) {
		_, _, err := assembler.Assemble([]*product.Product{{}}, []int{1})

		require.Error(t, err)
	})
}
