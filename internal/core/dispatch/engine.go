package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/services"
	"refuel/internal/core/ports"
	"refuel/internal/pkg/clock"
	"refuel/internal/pkg/errs"
)

const disconnectedMessage = "you have been marked offline: no heartbeat received, check in to keep receiving orders"

// Config holds the timing knobs of the reconciliation loop.
type Config struct {
	// StaleAfter is how old a heartbeat may be before a connected courier
	// is marked disconnected.
	StaleAfter time.Duration

	// ReminderAfter and ReminderBefore bound the elapsed-time window in
	// which an assigned-but-unaccepted order triggers a courier reminder.
	// The window is half-open: [ReminderAfter, ReminderBefore). Sizing it
	// close to the tick interval makes the reminder fire once in the
	// common case; an occasional double fire is tolerated.
	ReminderAfter  time.Duration
	ReminderBefore time.Duration
}

// Engine is the dispatch reconciliation loop. Each Tick expires stale
// couriers, reminds couriers sitting on unaccepted assignments, detects
// whether the fleet state changed since the previous tick, and, when it
// did, asks the optimizer for pairings and applies the acceptable ones.
//
// Tick is not re-entrant: the scheduler must skip or serialize overlapping
// runs. The mutex only guards the previous-snapshot reference shared with
// nothing else; it is not a substitute for that scheduling contract.
type Engine struct {
	uowFactory ports.UnitOfWorkFactory
	optimizer  ports.Optimizer
	selector   services.AssignmentSelector
	notifier   ports.Notifier
	audit      ports.TickAuditLog
	metrics    *Metrics
	clock      clock.Clock
	logger     *slog.Logger
	config     Config

	mu       sync.Mutex
	previous StateSnapshot
}

// NewEngine creates the reconciliation engine. The previous snapshot starts
// empty so the first tick always runs the assignment pass.
func NewEngine(
	uowFactory ports.UnitOfWorkFactory,
	optimizer ports.Optimizer,
	notifier ports.Notifier,
	audit ports.TickAuditLog,
	metrics *Metrics,
	clk clock.Clock,
	logger *slog.Logger,
	config Config,
) *Engine {
	return &Engine{
		uowFactory: uowFactory,
		optimizer:  optimizer,
		selector:   services.NewAssignmentSelector(),
		notifier:   notifier,
		audit:      audit,
		metrics:    metrics,
		clock:      clk,
		logger:     logger.With("component", "dispatch_engine"),
		config:     config,
	}
}

// Tick runs one reconciliation pass. Sub-step failures are isolated: a
// failed notification, audit append, or optimizer call never aborts the
// remaining steps. Tick returns an error only when the fleet state cannot
// be read at all.
func (e *Engine) Tick(ctx context.Context) error {
	started := e.clock.Now()
	e.metrics.TickStarted()

	e.expireStaleCouriers(ctx)

	orders, couriers, err := e.loadFleet(ctx)
	if err != nil {
		return fmt.Errorf("dispatch tick cannot read fleet state: %w", err)
	}

	e.remindTardyAcceptances(ctx, orders)

	current := BuildSnapshot(orders, couriers)
	changed := !current.Equal(e.previousSnapshot())

	orderView := orderInfos(orders)
	courierView := courierInfos(couriers, orders)

	applied := 0
	if changed {
		applied = e.runAssignmentPass(ctx, orderView, courierView)
	}

	// The stored snapshot always reflects the last observed state, even
	// when nothing differed or the optimizer was unreachable.
	e.swapSnapshot(current)

	e.appendAudit(ports.TickRecord{
		TickedAt:           started,
		Orders:             orderView,
		Couriers:           courierView,
		SnapshotChanged:    changed,
		AssignmentsApplied: applied,
	})

	e.metrics.TickFinished(e.clock.Now().Sub(started))
	return nil
}

// expireStaleCouriers marks couriers disconnected when their heartbeat is
// older than the staleness threshold. Each expiry runs in its own unit of
// work against freshly loaded state, so a heartbeat landing mid-tick wins.
// Couriers that freshly transitioned to disconnected are notified.
func (e *Engine) expireStaleCouriers(ctx context.Context) {
	now := e.clock.Now()

	roster, err := e.uowFactory.Create().CourierRepository().GetAll(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "stale-courier scan failed", "error", err)
		return
	}

	for _, candidate := range roster {
		if !candidate.ExpireHeartbeat(now, e.config.StaleAfter) {
			continue
		}
		e.expireCourier(ctx, candidate.ID(), now)
	}
}

func (e *Engine) expireCourier(ctx context.Context, courierID kernel.UUID, now time.Time) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		e.logger.ErrorContext(ctx, "courier expiry transaction failed to start",
			"courier_id", courierID, "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fresh, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		e.logger.ErrorContext(ctx, "courier expiry load failed", "courier_id", courierID, "error", err)
		return
	}

	if !fresh.ExpireHeartbeat(now, e.config.StaleAfter) {
		return
	}

	if err = uow.CourierRepository().Update(ctx, fresh); err != nil {
		e.logger.ErrorContext(ctx, "courier expiry update failed", "courier_id", courierID, "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		e.logger.ErrorContext(ctx, "courier expiry commit failed", "courier_id", courierID, "error", err)
		return
	}

	e.metrics.CourierExpired()
	e.logger.InfoContext(ctx, "courier marked disconnected", "courier_id", courierID)
	e.notifyAsync(courierID, disconnectedMessage)
}

// remindTardyAcceptances notifies couriers holding an assignment they have
// not accepted. The reminder fires while the elapsed time since the
// assigned event sits inside the configured window; delivery is best
// effort and may occasionally repeat when tick cadence and window overlap.
func (e *Engine) remindTardyAcceptances(ctx context.Context, orders []*order.Order) {
	now := e.clock.Now()

	for _, o := range orders {
		if o.Status() != order.Assigned || o.Courier() == nil {
			continue
		}

		assignedAt, ok := o.StatusTime(order.Assigned)
		if !ok {
			continue
		}

		elapsed := now.Sub(assignedAt)
		if elapsed < e.config.ReminderAfter || elapsed >= e.config.ReminderBefore {
			continue
		}

		e.metrics.ReminderSent()
		e.logger.InfoContext(ctx, "tardy-acceptance reminder",
			"order_id", o.ID(), "courier_id", *o.Courier())
		e.notifyAsync(*o.Courier(),
			fmt.Sprintf("order %s is waiting for your acceptance", o.ID()))
	}
}

// runAssignmentPass asks the optimizer to rank pairings for the current
// fleet and applies the selected ones. An optimizer failure skips only the
// application step; the tick keeps its schedule and retries when the fleet
// next changes.
func (e *Engine) runAssignmentPass(
	ctx context.Context,
	orderView []ports.OrderInfo,
	courierView []ports.CourierInfo,
) int {
	suggestions, err := e.optimizer.Suggest(ctx, orderView, onDuty(courierView))
	if err != nil {
		e.metrics.OptimizerFailed()
		e.logger.ErrorContext(ctx, "optimizer unavailable, skipping assignment application", "error", err)
		return 0
	}

	applied := 0
	for _, pairing := range e.selector.Select(suggestions) {
		if err := e.applyPairing(ctx, pairing); err != nil {
			if rejection, ok := errs.RejectionFrom(err); ok {
				e.logger.InfoContext(ctx, "assignment pairing skipped",
					"order_id", pairing.OrderID, "courier_id", pairing.CourierID,
					"reason", rejection.Reason)
			} else {
				e.logger.ErrorContext(ctx, "assignment pairing failed",
					"order_id", pairing.OrderID, "courier_id", pairing.CourierID,
					"error", err)
			}
			continue
		}

		applied++
		e.metrics.AssignmentApplied()
		e.logger.InfoContext(ctx, "order assigned",
			"order_id", pairing.OrderID, "courier_id", pairing.CourierID)
	}

	return applied
}

// applyPairing attaches a courier to an order and flags the courier busy in
// one transaction. The order repository's conditional update rejects the
// write when the order was claimed or altered between snapshot and
// application, so a stale pairing never overwrites a concurrent claim.
func (e *Engine) applyPairing(ctx context.Context, pairing services.Pairing) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pairedOrder, err := uow.OrderRepository().Get(ctx, pairing.OrderID)
	if err != nil {
		return err
	}

	pairedCourier, err := uow.CourierRepository().Get(ctx, pairing.CourierID)
	if err != nil {
		return err
	}

	if err = pairedOrder.AssignCourier(pairedCourier.ID(), e.clock.Now()); err != nil {
		return err
	}
	pairedCourier.MarkBusy()

	if err = uow.OrderRepository().Update(ctx, pairedOrder); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, pairedCourier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// loadFleet reads the tick's working set: every open order and the full
// courier roster.
func (e *Engine) loadFleet(ctx context.Context) ([]*order.Order, []*courier.Courier, error) {
	uow := e.uowFactory.Create()

	orders, err := uow.OrderRepository().GetAllOpen(ctx)
	if err != nil {
		return nil, nil, err
	}

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	return orders, couriers, nil
}

func (e *Engine) previousSnapshot() StateSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previous
}

func (e *Engine) swapSnapshot(current StateSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.previous = current
}

// appendAudit writes the tick's forensic record off the tick path. The
// append never gates the assignment pass; failures are logged and dropped.
func (e *Engine) appendAudit(record ports.TickRecord) {
	go func() {
		ctx := context.Background()
		if err := e.audit.Append(ctx, record); err != nil {
			e.logger.WarnContext(ctx, "tick audit append failed", "error", err)
		}
	}()
}

// notifyAsync pushes a courier notification off the tick path. Delivery is
// best effort; failures are logged and dropped.
func (e *Engine) notifyAsync(courierID kernel.UUID, message string) {
	go func() {
		ctx := context.Background()
		if err := e.notifier.Notify(ctx, courierID, message); err != nil {
			e.logger.WarnContext(ctx, "courier notification failed",
				"courier_id", courierID, "error", err)
		}
	}()
}

// orderInfos projects open orders into the optimizer contract.
func orderInfos(orders []*order.Order) []ports.OrderInfo {
	infos := make([]ports.OrderInfo, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, ports.OrderInfo{
			ID:          o.ID(),
			ZoneCode:    o.ZoneCode(),
			Position:    o.Position(),
			Octane:      o.Fuel().Octane(),
			Gallons:     o.Fuel().Gallons(),
			WindowStart: o.Window().Start(),
			WindowEnd:   o.Window().End(),
			Status:      o.Status(),
			History:     o.History(),
			CourierID:   o.Courier(),
		})
	}
	return infos
}

// courierInfos projects the courier roster into the optimizer contract,
// annotating each courier with the open orders it currently holds.
func courierInfos(couriers []*courier.Courier, orders []*order.Order) []ports.CourierInfo {
	held := make(map[kernel.UUID][]kernel.UUID)
	for _, o := range orders {
		if o.Courier() != nil {
			held[*o.Courier()] = append(held[*o.Courier()], o.ID())
		}
	}

	infos := make([]ports.CourierInfo, 0, len(couriers))
	for _, c := range couriers {
		tanks := make(map[int]int, len(c.Tanks()))
		for _, tank := range c.Tanks() {
			tanks[tank.Octane()] = tank.RemainingGallons()
		}

		infos = append(infos, ports.CourierInfo{
			ID:           c.ID(),
			Position:     c.Position(),
			OnDuty:       c.OnDuty(),
			Zones:        c.Zones(),
			TankGallons:  tanks,
			OpenOrderIDs: held[c.ID()],
		})
	}
	return infos
}

// onDuty filters the courier view down to the couriers the optimizer may
// pair: the ones who declared themselves available for work.
func onDuty(infos []ports.CourierInfo) []ports.CourierInfo {
	subset := make([]ports.CourierInfo, 0, len(infos))
	for _, info := range infos {
		if info.OnDuty {
			subset = append(subset, info)
		}
	}
	return subset
}
