package kernel

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// DeliveryCodeLength is the number of decimal digits in a delivery code.
const DeliveryCodeLength = 4

// ErrDeliveryCodeIsNotConstructed is returned when attempting to use an improperly
// initialized DeliveryCode. Codes must be created via NewDeliveryCode or
// DeliveryCodeFromString to ensure validity.
var ErrDeliveryCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"delivery code must be created via NewDeliveryCode or DeliveryCodeFromString constructors")

// DeliveryCode is the one-time numeric secret generated at order creation and
// presented by the customer to the rider at handoff. It is an immutable value
// object: exactly four decimal digits, leading zeros allowed.
//
// The code is generated from a cryptographically secure random source so it
// cannot be predicted, and compared in constant time so a match result is the
// only information an equality check leaks.
//
// Example:
//
//	code, err := kernel.NewDeliveryCode()
//	if err != nil {
//	    // Handle generation error
//	}
//	fmt.Println(code.String()) // e.g. "0481"
type DeliveryCode struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewDeliveryCode generates a fresh random delivery code.
// Every value in [0000..9999] is equally likely.
func NewDeliveryCode() (DeliveryCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return DeliveryCode{}, fmt.Errorf("generate delivery code: %w", err)
	}

	return DeliveryCodeFromString(fmt.Sprintf("%04d", n.Int64()))
}

// DeliveryCodeFromString reconstructs a delivery code from its string form.
// The input must be exactly four decimal digits; anything else fails validation.
// This constructor is used when restoring orders from persistence.
func DeliveryCodeFromString(s string) (DeliveryCode, error) {
	code := DeliveryCode{
		guard: guard.NewConstructorGuard(),
	}

	if err := code.setValue(s); err != nil {
		return DeliveryCode{}, err
	}

	return code, nil
}

// Validate checks if the DeliveryCode was properly constructed using a constructor.
// The zero value is invalid and fails this validation.
func (c DeliveryCode) Validate() error {
	return c.guard.Validate(ErrDeliveryCodeIsNotConstructed)
}

// String returns the four-digit string form of the code, leading zeros included.
func (c DeliveryCode) String() string {
	return c.value
}

// Matches reports whether the presented code equals this one.
// Comparison is exact (digits only, no normalization) and constant-time.
func (c DeliveryCode) Matches(presented string) bool {
	if len(presented) != DeliveryCodeLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(presented)) == 1
}

// setValue validates and sets the code digits.
// Note: pointer receiver for self-encapsulated validation during construction.
func (c *DeliveryCode) setValue(s string) error {
	if len(s) != DeliveryCodeLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery code",
			fmt.Errorf("code must be exactly %d digits", DeliveryCodeLength),
		)
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause(
				"delivery code",
				fmt.Errorf("code must contain decimal digits only"),
			)
		}
	}

	c.value = s
	return nil
}
