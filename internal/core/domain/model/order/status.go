package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrInvalidStatusTransition is returned when an operation is attempted from a
// status with no matching outgoing edge in the transition table. The order is
// left unchanged.
var ErrInvalidStatusTransition = errors.New("status transition is not allowed")

// Status represents the lifecycle state of an order.
// It implements a state machine with a single authoritative transition table
// consulted by every mutating operation:
//
//	Paid ──claim──> Assigned ──pickup──> PickedUp ──verify──> Delivered
//
// Delivered is terminal. Cancelled is a reserved terminal state: it is a valid
// value when restoring persisted orders, but no transition in this core
// reaches it.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Paid is the initial status of a freshly checked-out order.
	// Payment is settled before checkout is invoked; orders in this status
	// are visible to riders and waiting to be claimed.
	Paid

	// Assigned indicates exactly one rider has claimed the order.
	Assigned

	// PickedUp indicates the assigned rider has collected the order
	// from the vendor and is delivering it.
	PickedUp

	// Delivered indicates the delivery code was verified at handoff.
	// This is a terminal state with no further transitions allowed.
	Delivered

	// Cancelled is a reserved terminal state. No operation in this core
	// transitions into it.
	Cancelled
)

// transitionEvent identifies a mutating operation on an order.
type transitionEvent string

const (
	eventClaim   transitionEvent = "claim"
	eventPickUp  transitionEvent = "pickup"
	eventDeliver transitionEvent = "deliver"
)

// transitions is the single authoritative edge table for the order lifecycle.
// Every mutating operation resolves its edge here; a status that appears in no
// "from" column is terminal.
var transitions = map[transitionEvent]struct{ from, to Status }{
	eventClaim:   {from: Paid, to: Assigned},
	eventPickUp:  {from: Assigned, to: PickedUp},
	eventDeliver: {from: PickedUp, to: Delivered},
}

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Paid:      "PAID",
		Assigned:  "ASSIGNED",
		PickedUp:  "PICKED_UP",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Paid:      "PAID",
		Assigned:  "ASSIGNED",
		PickedUp:  "PICKED_UP",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// Validate checks if the Status value is valid.
// Valid statuses are Paid, Assigned, PickedUp, Delivered and Cancelled;
// Unknown (0) and any other values are invalid. Used to vet Status values
// arriving from external sources (database, API) before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "PICKED_UP".
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status has no outgoing edge in the
// transition table.
func (s Status) IsTerminal() bool {
	if s.Validate() != nil {
		return false
	}
	for _, edge := range transitions {
		if edge.from == s {
			return false
		}
	}
	return true
}

// Claim transitions the status to Assigned.
//
// Valid transitions:
//   - Paid -> Assigned
//
// Returns (Assigned, nil) on a valid transition, or (Unknown, error wrapping
// ErrInvalidStatusTransition) otherwise.
func (s Status) Claim() (Status, error) {
	return s.apply(eventClaim)
}

// PickUp transitions the status to PickedUp.
//
// Valid transitions:
//   - Assigned -> PickedUp
func (s Status) PickUp() (Status, error) {
	return s.apply(eventPickUp)
}

// Deliver transitions the status to Delivered, the terminal state.
//
// Valid transitions:
//   - PickedUp -> Delivered
func (s Status) Deliver() (Status, error) {
	return s.apply(eventDeliver)
}

// ValidateCanHaveRider validates the consistency between order status and
// rider assignment. Paid orders must not have a rider; every later status
// must, since the rider is set exactly once during the claim transition.
func (s Status) ValidateCanHaveRider(rider bool) error {
	if rider && s == Paid {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a rider", s.String()),
		)
	}

	if !rider && (s == Assigned || s == PickedUp || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no rider", s.String()),
		)
	}

	return nil
}

// apply resolves the event's edge in the transition table and fires it.
// The source status must match the edge exactly: transitions never skip or
// reverse a step.
func (s Status) apply(event transitionEvent) (Status, error) {
	edge, ok := transitions[event]
	if !ok || s != edge.from {
		return Unknown, fmt.Errorf("%w: cannot %s order in status %s", ErrInvalidStatusTransition, event, s)
	}

	return edge.to, nil
}
