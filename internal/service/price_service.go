package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prediction-terminal/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	priceCacheKey          = "prices:latest"
	defaultUpstreamTimeout = 5 * time.Second
	defaultPriceCacheTTL   = 30 * time.Second
)

// QuoteSource is one upstream price feed.
type QuoteSource interface {
	Name() domain.PriceSource
	FetchQuotes(ctx context.Context) (map[string]*domain.PriceQuote, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceServiceConfig bounds each upstream attempt and the response cache.
type PriceServiceConfig struct {
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
}

// PriceService resolves USD prices from a primary source with a single
// fallback, optionally fronted by Redis.
type PriceService struct {
	tracer   trace.Tracer
	logger   *zap.Logger
	symbols  *domain.SymbolTable
	primary  QuoteSource
	fallback QuoteSource
	redis    RedisClient
	timeout  time.Duration
	cacheTTL time.Duration
}

func NewPriceService(
	tracer trace.Tracer,
	logger *zap.Logger,
	symbols *domain.SymbolTable,
	primary QuoteSource,
	fallback QuoteSource,
	redisClient RedisClient,
	cfg PriceServiceConfig,
) *PriceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultPriceCacheTTL
	}
	return &PriceService{
		tracer:   tracer,
		logger:   logger,
		symbols:  symbols,
		primary:  primary,
		fallback: fallback,
		redis:    redisClient,
		timeout:  cfg.UpstreamTimeout,
		cacheTTL: cfg.CacheTTL,
	}
}

// Resolve asks the primary source, then the fallback once if the primary
// fails. There are no retries. When both fail the error matches
// domain.ErrPriceUnavailable and wraps both causes.
func (s *PriceService) Resolve(ctx context.Context) (*domain.PriceSet, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.resolve")
	defer span.End()

	quotes, primaryErr := s.attempt(ctx, s.primary)
	if primaryErr == nil {
		span.SetAttributes(attribute.String("source", string(s.primary.Name())))
		return &domain.PriceSet{Source: s.primary.Name(), Quotes: quotes}, nil
	}

	if s.fallback == nil {
		span.RecordError(primaryErr)
		return nil, errors.Join(domain.ErrPriceUnavailable, primaryErr)
	}

	s.logger.Warn("primary price source failed, trying fallback",
		zap.String("primary", string(s.primary.Name())),
		zap.String("fallback", string(s.fallback.Name())),
		zap.Error(primaryErr),
	)

	quotes, fallbackErr := s.attempt(ctx, s.fallback)
	if fallbackErr == nil {
		span.SetAttributes(attribute.String("source", string(s.fallback.Name())))
		return &domain.PriceSet{Source: s.fallback.Name(), Quotes: quotes}, nil
	}

	err := errors.Join(domain.ErrPriceUnavailable, primaryErr, fallbackErr)
	span.RecordError(err)
	s.logger.Error("all price sources failed", zap.Error(err))
	return nil, err
}

func (s *PriceService) attempt(ctx context.Context, src QuoteSource) (map[string]*domain.PriceQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	quotes, err := src.FetchQuotes(ctx)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, domain.ErrUpstreamTimeout) {
			return nil, fmt.Errorf("%s: %w: %v", src.Name(), domain.ErrUpstreamTimeout, err)
		}
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%s: %w: empty quote set", src.Name(), domain.ErrUpstreamBadResponse)
	}
	return quotes, nil
}

// GetPrices returns the cached price set when one is fresh, otherwise
// resolves and caches the result.
func (s *PriceService) GetPrices(ctx context.Context) (*domain.PriceSet, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.get-prices")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getPriceCache(ctx)
		if err != nil {
			s.logger.Warn("redis cache read error", zap.Error(err))
		}
		if cached != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &domain.PriceSet{Source: domain.SourceCache, Quotes: cached.Quotes}, nil
		}
	}

	set, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	s.storePrices(ctx, set)
	return set, nil
}

// GetQuote returns the price for one configured symbol.
func (s *PriceService) GetQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	asset, ok := s.symbols.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	set, err := s.GetPrices(ctx)
	if err != nil {
		return nil, err
	}
	q := set.Quote(asset.Symbol)
	if q == nil {
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrPriceUnavailable, asset.Symbol)
	}
	return q, nil
}

// RefreshPrices resolves from upstream and overwrites the cache.
func (s *PriceService) RefreshPrices(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "price-service.refresh-prices")
	defer span.End()

	set, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	s.storePrices(ctx, set)

	s.logger.Debug("refreshed prices",
		zap.String("source", string(set.Source)),
		zap.Int("assets", len(set.Quotes)),
	)
	return nil
}

func (s *PriceService) storePrices(ctx context.Context, set *domain.PriceSet) {
	if s.redis == nil {
		return
	}
	if err := s.setPriceCache(ctx, set); err != nil {
		s.logger.Warn("redis cache write error", zap.Error(err))
	}
}

func (s *PriceService) setPriceCache(ctx context.Context, set *domain.PriceSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, priceCacheKey, data, s.cacheTTL).Err()
}

func (s *PriceService) getPriceCache(ctx context.Context) (*domain.PriceSet, error) {
	data, err := s.redis.Get(ctx, priceCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var set domain.PriceSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	if len(set.Quotes) == 0 {
		return nil, nil
	}
	return &set, nil
}
