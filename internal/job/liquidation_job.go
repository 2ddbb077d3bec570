package job

import (
	"context"
	"sync/atomic"

	"prediction-terminal/internal/service"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sweeper interface {
	Sweep(ctx context.Context) ([]*service.Liquidation, error)
}

// Scheduler is satisfied by *cronrunner.Runner.
type Scheduler interface {
	Add(name, spec string, job func(context.Context)) (cron.EntryID, error)
}

// LiquidationJob runs the keeper sweep on a schedule.
type LiquidationJob struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	keeper  Sweeper
	total   atomic.Int64
	lastErr atomic.Value
}

func NewLiquidationJob(tracer trace.Tracer, logger *zap.Logger, keeper Sweeper) *LiquidationJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiquidationJob{tracer: tracer, logger: logger, keeper: keeper}
}

// Register schedules Run under spec.
func (j *LiquidationJob) Register(s Scheduler, spec string) error {
	_, err := s.Add("liquidation-sweep", spec, j.Run)
	return err
}

// Run performs one sweep. Failures are logged; the next tick tries again.
func (j *LiquidationJob) Run(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "job.liquidation-sweep")
	defer span.End()

	done, err := j.keeper.Sweep(ctx)
	j.total.Add(int64(len(done)))
	if err != nil {
		j.lastErr.Store(err.Error())
		span.RecordError(err)
		j.logger.Warn("liquidation sweep finished with errors",
			zap.Int("liquidations", len(done)),
			zap.Error(err),
		)
		return
	}
	j.lastErr.Store("")
	if len(done) > 0 {
		j.logger.Info("liquidation sweep finished", zap.Int("liquidations", len(done)))
	}
}

// Total is the number of liquidations submitted since start.
func (j *LiquidationJob) Total() int64 {
	return j.total.Load()
}

// LastError is the error text of the most recent sweep, or "".
func (j *LiquidationJob) LastError() string {
	s, _ := j.lastErr.Load().(string)
	return s
}
