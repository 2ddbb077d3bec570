package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"prediction-terminal/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches spot prices from the CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	symbols *domain.SymbolTable
}

// NewCoinGeckoProvider creates a new provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer, symbols *domain.SymbolTable) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
		symbols: symbols,
	}
}

func (p *CoinGeckoProvider) Name() domain.PriceSource { return domain.SourceCoinGecko }

// FetchQuotes fetches current prices for all configured assets in a single API call.
func (p *CoinGeckoProvider) FetchQuotes(ctx context.Context) (map[string]*domain.PriceQuote, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-quotes")
	defer span.End()

	ids := p.symbols.CoinGeckoIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("coingecko: %w: no asset ids configured", domain.ErrUpstreamBadResponse)
	}

	span.SetAttributes(attribute.Int("rate_limit.tokens", p.limiter.Available()))
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, classifyTransportError("coingecko", err)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		strings.TrimRight(p.baseURL, "/"), strings.Join(ids, ","))

	// Response shape: {"bitcoin": {"usd": 97000}, "solana": {"usd": 142.3}}
	var raw map[string]struct {
		USD *float64 `json:"usd"`
	}
	if err := getJSON(ctx, p.client, "coingecko", endpoint, &raw); err != nil {
		span.RecordError(err)
		return nil, err
	}

	quotes := make(map[string]*domain.PriceQuote, len(raw))
	for cgID, data := range raw {
		symbol, ok := p.symbols.SymbolForCoinGeckoID(cgID)
		if !ok || data.USD == nil || *data.USD <= 0 {
			continue
		}
		quotes[symbol] = domain.NewPriceQuote(symbol, *data.USD)
	}

	span.SetAttributes(attribute.Int("quotes", len(quotes)))
	if len(quotes) == 0 {
		return nil, fmt.Errorf("coingecko: %w: no usable prices", domain.ErrUpstreamBadResponse)
	}
	return quotes, nil
}
