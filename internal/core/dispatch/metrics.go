package dispatch

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records tick outcomes in Prometheus collectors so operators can
// watch reconciliation health: tick cadence and duration, how many
// assignments land, and whether the optimizer is reachable.
type Metrics struct {
	ticks             prometheus.Counter
	tickDuration      prometheus.Histogram
	assignments       prometheus.Counter
	optimizerFailures prometheus.Counter
	couriersExpired   prometheus.Counter
	remindersSent     prometheus.Counter
}

// NewMetrics registers the dispatch collectors on the provided registerer.
// If reg is nil, the default registerer is used. Collectors that are
// already registered are reused, so repeated construction is safe.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	ticks, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "dispatch_ticks_total",
		Help: "Total number of reconciliation ticks started",
	})
	if err != nil {
		return nil, err
	}

	tickDuration, err := registerHistogram(reg, prometheus.HistogramOpts{
		Name:    "dispatch_tick_duration_seconds",
		Help:    "Wall-clock duration of reconciliation ticks",
		Buckets: prometheus.DefBuckets,
	})
	if err != nil {
		return nil, err
	}

	assignments, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "dispatch_assignments_applied_total",
		Help: "Total number of courier assignments applied by the dispatch loop",
	})
	if err != nil {
		return nil, err
	}

	optimizerFailures, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "dispatch_optimizer_failures_total",
		Help: "Total number of optimizer calls that failed",
	})
	if err != nil {
		return nil, err
	}

	couriersExpired, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "dispatch_couriers_expired_total",
		Help: "Total number of couriers marked disconnected for missing heartbeats",
	})
	if err != nil {
		return nil, err
	}

	remindersSent, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "dispatch_acceptance_reminders_total",
		Help: "Total number of tardy-acceptance reminders sent to couriers",
	})
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ticks:             ticks,
		tickDuration:      tickDuration,
		assignments:       assignments,
		optimizerFailures: optimizerFailures,
		couriersExpired:   couriersExpired,
		remindersSent:     remindersSent,
	}, nil
}

// TickStarted counts a tick beginning.
func (m *Metrics) TickStarted() {
	m.ticks.Inc()
}

// TickFinished records how long a tick took.
func (m *Metrics) TickFinished(elapsed time.Duration) {
	m.tickDuration.Observe(elapsed.Seconds())
}

// AssignmentApplied counts one applied pairing.
func (m *Metrics) AssignmentApplied() {
	m.assignments.Inc()
}

// OptimizerFailed counts one failed optimizer call.
func (m *Metrics) OptimizerFailed() {
	m.optimizerFailures.Inc()
}

// CourierExpired counts one courier freshly marked disconnected.
func (m *Metrics) CourierExpired() {
	m.couriersExpired.Inc()
}

// ReminderSent counts one tardy-acceptance reminder.
func (m *Metrics) ReminderSent() {
	m.remindersSent.Inc()
}

func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) (prometheus.Counter, error) {
	counter := prometheus.NewCounter(opts)
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Counter), nil
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, opts prometheus.HistogramOpts) (prometheus.Histogram, error) {
	histogram := prometheus.NewHistogram(opts)
	if err := reg.Register(histogram); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Histogram), nil
		}
		return nil, err
	}
	return histogram, nil
}
