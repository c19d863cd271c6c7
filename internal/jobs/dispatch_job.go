package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Ticker runs one dispatch reconciliation pass over the fleet.
type Ticker interface {
	Tick(ctx context.Context) error
}

// DispatchJob drives the dispatch engine on a fixed interval. Ticks never
// overlap: when a pass is still running at the next firing, the firing is
// skipped and logged rather than run concurrently.
type DispatchJob struct {
	engine   Ticker
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger
}

// NewDispatchJob creates the scheduled dispatch job.
// The interval comes from configuration; one reconciliation pass is
// triggered per interval.
func NewDispatchJob(engine Ticker, interval time.Duration, logger *slog.Logger) *DispatchJob {
	scoped := logger.With("component", "dispatch_job")
	return &DispatchJob{
		engine: engine,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: scoped})),
		),
		interval: interval,
		logger:   scoped,
	}
}

// Start schedules the reconciliation tick on the configured interval.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		if err := j.engine.Tick(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started", "interval", j.interval.String())
	return nil
}

// Stop halts the schedule and blocks until an in-flight tick returns.
func (j *DispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}

// cronLogger routes the cron library's messages, including skipped-firing
// notices from the still-running chain, through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
