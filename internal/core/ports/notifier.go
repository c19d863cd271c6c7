package ports

import (
	"context"

	"refuel/internal/core/domain/model/kernel"
)

// Notifier pushes out-of-band messages to couriers: stale-heartbeat
// disconnect notices and tardy-acceptance reminders. Delivery is
// best-effort; callers fire notifications off the main flow and failures
// are logged, never propagated into the triggering tick or transition.
type Notifier interface {
	Notify(ctx context.Context, courierID kernel.UUID, message string) error
}
