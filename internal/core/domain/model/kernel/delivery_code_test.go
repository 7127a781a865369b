package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryCode(t *testing.T) {
	t.Run("should generate four decimal digits", func(t *testing.T) {
		for range 100 {
			code, err := kernel.NewDeliveryCode()

			require.NoError(t, err)
			require.NoError(t, code.Validate())
			assert.Len(t, code.String(), kernel.DeliveryCodeLength)
			for _, r := range code.String() {
				assert.True(t, r >= '0' && r <= '9', "unexpected character %q", r)
			}
		}
	})
}

func TestDeliveryCodeFromString(t *testing.T) {
	t.Run("should accept four digits", func(t *testing.T) {
		code, err := kernel.DeliveryCodeFromString("4821")

		require.NoError(t, err)
		assert.Equal(t, "4821", code.String())
	})

	t.Run("should keep leading zeros", func(t *testing.T) {
		code, err := kernel.DeliveryCodeFromString("0042")

		require.NoError(t, err)
		assert.Equal(t, "0042", code.String())
	})

	t.Run("should reject wrong length", func(t *testing.T) {
		for _, input := range []string{"", "123", "12345"} {
			_, err := kernel.DeliveryCodeFromString(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "delivery code")
		}
	})

	t.Run("should reject non-digit characters", func(t *testing.T) {
		for _, input := range []string{"12a4", "    ", "12.4", "١٢٣٤"} {
			_, err := kernel.DeliveryCodeFromString(input)
			require.Error(t, err)
		}
	})
}

func TestDeliveryCode_Matches(t *testing.T) {
	code, err := kernel.DeliveryCodeFromString("4821")
	require.NoError(t, err)

	t.Run("should match exact code", func(t *testing.T) {
		assert.True(t, code.Matches("4821"))
	})

	t.Run("should reject different code", func(t *testing.T) {
		assert.False(t, code.Matches("4822"))
		assert.False(t, code.Matches("1284"))
	})

	t.Run("should reject partial and padded input", func(t *testing.T) {
		assert.False(t, code.Matches("482"))
		assert.False(t, code.Matches("48211"))
		assert.False(t, code.Matches(""))
	})
}

func TestDeliveryCode_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var code kernel.DeliveryCode

		err := code.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery code must be created")
	})
}
