package ports

import (
	"context"

	"refuel/internal/core/domain/model/kernel"
)

// CreditLedger defines the contract for customer promotional credit
// balances. Creating an order reserves the applied credit out of the
// balance in the same transaction that persists the order; cancelling
// refunds the reservation, while completion consumes it.
type CreditLedger interface {
	// Available returns the customer's current credit balance in cents.
	// Customers without a ledger row have a zero balance.
	Available(ctx context.Context, customerID kernel.UUID) (int, error)

	// Reserve deducts the given cents from the customer's balance.
	// Fails when the balance does not cover the reservation.
	Reserve(ctx context.Context, customerID kernel.UUID, cents int) error

	// Refund returns the given cents to the customer's balance.
	Refund(ctx context.Context, customerID kernel.UUID, cents int) error
}
