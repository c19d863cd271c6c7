// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"refuel/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// ZoneRepoFactory provides access to zone configuration within a transaction.
	ZoneRepoFactory interface {
		ZoneRepository() ports.ZoneRepository
	}

	// CreditLedgerFactory provides access to the credit ledger within a transaction.
	CreditLedgerFactory interface {
		CreditLedger() ports.CreditLedger
	}

	// CourierUoW manages transactions for courier-only operations:
	// registration, heartbeats, and tank refills.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// OrderUoW manages transactions for order status changes. The courier
	// repository and credit ledger ride in the same transaction because a
	// status write carries side effects: the courier busy flip and the
	// release of reserved promotional credit must commit or roll back
	// together with the status change.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		CreditLedgerFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions spanning every collaborator of order
	// admission: zone configuration for pricing, order and courier counts
	// for the capacity gate, and the credit ledger for the reservation.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   zone, err := uow.ZoneRepository().Get(ctx, code)
	//   // ... admission checks, order creation
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		ZoneRepoFactory
		CreditLedgerFactory
	}

	// UoWFactory creates new unit of work instances for admission-scoped operations.
	UoWFactory interface {
		Create() UoW
	}
)
