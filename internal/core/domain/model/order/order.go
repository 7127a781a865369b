package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrAlreadyClaimed is returned to a rider whose claim found the order
	// already assigned. Race losers and late claimants are indistinguishable:
	// both observe an assigned order.
	ErrAlreadyClaimed = errors.New("order is already claimed by another rider")

	// ErrUnauthorizedRider is returned when a rider other than the assigned one
	// attempts a pickup or delivery verification. The operation fails closed
	// with no side effect.
	ErrUnauthorizedRider = errors.New("order is assigned to a different rider")

	// ErrCodeMismatch is returned when the presented delivery code does not
	// equal the order's stored code. The order is left unchanged and the caller
	// may retry.
	ErrCodeMismatch = errors.New("delivery code does not match")
)

// Order is the aggregate root of the fulfillment lifecycle: created at
// checkout, claimed by exactly one rider, picked up, and delivered against the
// delivery code. It is a permanent ledger entry and is never deleted.
//
// Order maintains these invariants:
//   - status only moves forward through Paid -> Assigned -> PickedUp -> Delivered
//   - the rider is set exactly once, during the claim transition
//   - lines, total amount, delivery code and creation time never change after creation
//   - total amount always equals the sum of unitPrice x quantity over the lines
//
// The struct uses private fields to ensure encapsulation; all mutation goes
// through methods that consult the status transition table.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID identifies the customer the order was created for
	customerID kernel.UUID

	// vendorID identifies the single vendor all lines belong to
	vendorID kernel.UUID

	// riderID is the assigned rider's ID (nil until claimed, then immutable)
	riderID *kernel.UUID

	// lines are the product snapshots, in cart insertion order
	lines []Line

	// totalAmount is the sum of line subtotals, computed once at creation
	totalAmount int64

	// deliveryAddress is the destination provided at checkout
	deliveryAddress string

	// status is the current state in the order lifecycle
	status Status

	// code is the secret gating the final rider-to-customer handoff
	code kernel.DeliveryCode

	// createdAt is the creation timestamp, immutable
	createdAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Paid status with validation. This is the
// only way to create a fresh order; the total amount is computed here, once,
// from the snapshot lines.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	lines []Line,
	deliveryAddress string,
	code kernel.DeliveryCode,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Paid,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setVendorID(vendorID),
		o.setLines(lines),
		o.setDeliveryAddress(deliveryAddress),
		o.setCode(code),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	o.totalAmount = computeTotal(o.lines)
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence.
// All invariants are re-checked: status must be valid, rider presence must be
// consistent with the status, and the stored total must equal the sum over
// the stored lines.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	lines []Line,
	deliveryAddress string,
	totalAmount int64,
	status Status,
	riderID *kernel.UUID,
	code kernel.DeliveryCode,
	createdAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, customerID, vendorID, lines, deliveryAddress, code, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = status.ValidateCanHaveRider(riderID != nil); err != nil {
		return nil, err
	}
	if riderID != nil {
		if err = riderID.Validate(); err != nil {
			return nil, err
		}
		rider := *riderID
		o.riderID = &rider
	}
	if totalAmount != o.totalAmount {
		return nil, errs.NewValueIsInvalidError("total amount does not match the sum over lines")
	}

	o.status = status
	return o, nil
}

// Validate ensures the Order instance was properly constructed through a
// constructor. Returns ErrOrderIsNotConstructed otherwise.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Customer returns the identifier of the customer who placed the order.
func (o *Order) Customer() kernel.UUID {
	return o.customerID
}

// Vendor returns the identifier of the vendor all lines belong to.
func (o *Order) Vendor() kernel.UUID {
	return o.vendorID
}

// Rider returns the assigned rider's ID, or nil if the order is unclaimed.
func (o *Order) Rider() *kernel.UUID {
	return o.riderID
}

// Lines returns the snapshot lines in their original cart order.
// The returned slice is a copy; callers cannot mutate the aggregate through it.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// TotalAmount returns the immutable order total, in minor currency units.
func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

// DeliveryAddress returns the destination provided at checkout.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Code returns the delivery code. It is exposed to the customer who placed
// the order and to persistence; rider-facing projections must not include it.
func (o *Order) Code() kernel.DeliveryCode {
	return o.code
}

// CreatedAt returns the immutable creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Claim assigns the order to a rider and transitions Paid -> Assigned.
// Exactly one claim ever succeeds: an order that is already assigned rejects
// further claims with ErrAlreadyClaimed, and later statuses reject with the
// transition error. On failure the order is unchanged.
func (o *Order) Claim(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	if o.status == Assigned {
		return ErrAlreadyClaimed
	}

	newStatus, err := o.status.Claim()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.riderID = &riderID
	return nil
}

// MarkPickedUp transitions Assigned -> PickedUp.
// Succeeds only when called by the assigned rider; any other rider receives
// ErrUnauthorizedRider and the order is unchanged.
func (o *Order) MarkPickedUp(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	if !o.isAssignedTo(riderID) {
		return ErrUnauthorizedRider
	}

	o.status = newStatus
	return nil
}

// VerifyDelivery checks the presented code and transitions
// PickedUp -> Delivered, the terminal state.
//
// The checks fail closed in order: a wrong status or an unauthorized rider is
// rejected before the code is ever compared, so neither result reveals whether
// the code would have matched. A mismatching code returns ErrCodeMismatch and
// leaves the order unchanged; the caller may retry.
func (o *Order) VerifyDelivery(riderID kernel.UUID, presentedCode string) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	if !o.isAssignedTo(riderID) {
		return ErrUnauthorizedRider
	}

	if !o.code.Matches(presentedCode) {
		return ErrCodeMismatch
	}

	o.status = newStatus
	return nil
}

// isAssignedTo reports whether the order is assigned to the given rider.
func (o *Order) isAssignedTo(riderID kernel.UUID) bool {
	return o.riderID != nil && o.riderID.IsEqual(riderID)
}

// computeTotal sums the line subtotals.
func computeTotal(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	o.vendorID = vendorID
	return nil
}

// setLines validates and copies the snapshot lines, preserving cart order.
func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("order lines")
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	return nil
}

func (o *Order) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = deliveryAddress
	return nil
}

func (o *Order) setCode(code kernel.DeliveryCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.code = code
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}
