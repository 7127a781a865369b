// Package product provides the Product aggregate, the unit of the inventory
// ledger. Stock on a product is decremented only through reservations made at
// checkout and released back only by compensating rollbacks, and is never
// allowed to go negative.
package product
