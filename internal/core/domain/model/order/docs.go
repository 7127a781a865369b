// Package order provides domain entities and business logic for order
// fulfillment. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, lines, and lifecycle
//   - Line: An immutable snapshot of a product at checkout time
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid identifier, customer, vendor, address, and at least one line
//   - Order status follows a defined workflow: Paid -> Assigned -> PickedUp -> Delivered
//   - Exactly one rider ever claims an order; the rider never changes afterwards
//   - Delivery completes only against the order's delivery code, presented by the assigned rider
//   - Lines, total amount, delivery code and creation time are immutable after creation
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
