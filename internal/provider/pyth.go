package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/fixedpoint"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const pythBaseURL = "https://hermes.pyth.network"

// PythProvider reads the latest aggregated prices from the Pyth Hermes API.
type PythProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	symbols *domain.SymbolTable
}

// NewPythProvider creates a Hermes client for every feed in symbols. The
// caller bounds each request through its context.
func NewPythProvider(tracer trace.Tracer, symbols *domain.SymbolTable) *PythProvider {
	return &PythProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: pythBaseURL,
		tracer:  tracer,
		symbols: symbols,
	}
}

func (p *PythProvider) Name() domain.PriceSource { return domain.SourcePyth }

type hermesPrice struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

type hermesFeed struct {
	ID    string       `json:"id"`
	Price *hermesPrice `json:"price"`
}

// FetchQuotes requests all configured feeds in one batched call.
func (p *PythProvider) FetchQuotes(ctx context.Context) (map[string]*domain.PriceQuote, error) {
	ctx, span := p.tracer.Start(ctx, "pyth.fetch-quotes")
	defer span.End()

	ids := p.symbols.FeedIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("pyth: %w: no feed ids configured", domain.ErrUpstreamBadResponse)
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids[]", id)
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/v2/updates/price/latest?" + params.Encode()

	// Response shape: {"binary": {...}, "parsed": [{"id": "e62d...", "price": {"price": "6512345678900", "expo": -8, ...}}]}
	var payload struct {
		Parsed []hermesFeed `json:"parsed"`
	}
	if err := getJSON(ctx, p.client, "pyth", endpoint, &payload); err != nil {
		span.RecordError(err)
		return nil, err
	}

	quotes := make(map[string]*domain.PriceQuote, len(payload.Parsed))
	for _, feed := range payload.Parsed {
		if feed.ID == "" || feed.Price == nil {
			continue
		}
		symbol, ok := p.symbols.SymbolForFeedID(feed.ID)
		if !ok {
			continue
		}
		price, err := fixedpoint.FromMantissa(feed.Price.Price, feed.Price.Expo)
		if err != nil || price <= 0 {
			continue
		}
		quotes[symbol] = domain.NewPriceQuote(symbol, price)
	}

	span.SetAttributes(attribute.Int("quotes", len(quotes)))
	if len(quotes) == 0 {
		return nil, fmt.Errorf("pyth: %w: no parseable feeds", domain.ErrUpstreamBadResponse)
	}
	return quotes, nil
}
