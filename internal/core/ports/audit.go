package ports

import (
	"context"
	"time"
)

// TickRecord is the forensic record of one reconciliation tick: the input
// state the tick saw and what it did with it.
type TickRecord struct {
	TickedAt           time.Time
	Orders             []OrderInfo
	Couriers           []CourierInfo
	SnapshotChanged    bool
	AssignmentsApplied int
}

// TickAuditLog appends tick records to a durable log for debugging and
// forensics. Appends are fire-and-forget: they never block or gate the
// assignment pass, and failures are logged, not propagated.
type TickAuditLog interface {
	Append(ctx context.Context, record TickRecord) error
}
