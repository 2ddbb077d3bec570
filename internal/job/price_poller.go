package job

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PricePoller keeps the price cache warm so request paths rarely wait on
// upstream.
type PricePoller struct {
	tracer       trace.Tracer
	logger       *zap.Logger
	priceService PriceRefresher
	pollInterval time.Duration
}

type PriceRefresher interface {
	RefreshPrices(ctx context.Context) error
}

func NewPricePoller(tracer trace.Tracer, logger *zap.Logger, priceService PriceRefresher, pollIntervalSecs int) *PricePoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollIntervalSecs <= 0 {
		pollIntervalSecs = 20
	}
	return &PricePoller{
		tracer:       tracer,
		logger:       logger,
		priceService: priceService,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start polls until ctx is cancelled.
func (p *PricePoller) Start(ctx context.Context) {
	p.logger.Info("price poller starting", zap.Duration("interval", p.pollInterval))

	p.pollLoop(ctx, "current-prices", p.pollInterval, func(ctx context.Context) error {
		ctx, span := p.tracer.Start(ctx, "job.refresh-prices")
		defer span.End()
		return p.priceService.RefreshPrices(ctx)
	})

	p.logger.Info("price poller stopped")
}

func (p *PricePoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		p.logger.Warn("poller initial run failed", zap.String("poller", name), zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				p.logger.Warn("poller run failed", zap.String("poller", name), zap.Error(err))
			}
		}
	}
}
