package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"prediction-terminal/internal/domain"
)

func newTestPyth(rt roundTripFunc) *PythProvider {
	p := NewPythProvider(testTracer, domain.DefaultSymbolTable())
	p.baseURL = "http://hermes.example"
	p.client = &http.Client{Transport: rt}
	return p
}

const hermesBody = `{
  "binary": {"encoding": "hex", "data": []},
  "parsed": [
    {"id": "e62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
     "price": {"price": "6512345678900", "conf": "1000", "expo": -8, "publish_time": 1700000000}},
    {"id": "0xFF61491A931112DDF1BD8147CD1B641375F79F5825126D665480874634FD0ACE",
     "price": {"price": "14230000000", "conf": "1000", "expo": -8, "publish_time": 1700000000}},
    {"id": "deadbeef", "price": {"price": "1", "expo": 0}},
    {"id": "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874508cc0881"}
  ]
}`

func TestPythProviderFetchQuotes(t *testing.T) {
	t.Parallel()

	p := newTestPyth(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v2/updates/price/latest" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		ids := req.URL.Query()["ids[]"]
		if len(ids) != 3 {
			t.Fatalf("expected 3 feed ids, got %v", ids)
		}
		return jsonResponse(http.StatusOK, hermesBody), nil
	})

	quotes, err := p.FetchQuotes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected BTC and SOL only, got %d quotes", len(quotes))
	}

	btc := quotes["BTC"]
	if btc == nil || btc.Price != 65123.456789 {
		t.Fatalf("unexpected BTC quote: %+v", btc)
	}
	if btc.Price18 != "65123456789000000000000" {
		t.Fatalf("unexpected BTC price18: %s", btc.Price18)
	}

	sol := quotes["SOL"]
	if sol == nil || sol.Price != 142.3 {
		t.Fatalf("prefixed upper-case feed id should map to SOL, got %+v", sol)
	}
	if _, ok := quotes["ETH"]; ok {
		t.Fatal("feed without a price object should be skipped")
	}
}

func TestPythProviderServerError(t *testing.T) {
	t.Parallel()

	p := newTestPyth(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "internal"), nil
	})

	_, err := p.FetchQuotes(context.Background())
	if !errors.Is(err, domain.ErrUpstreamBadResponse) {
		t.Fatalf("expected bad response error, got %v", err)
	}
}

func TestPythProviderEmptyParsed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"parsed": []}`, `{}`, `{"parsed": [{"id": "", "price": {"price": "1", "expo": 0}}]}`} {
		p := newTestPyth(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})
		_, err := p.FetchQuotes(context.Background())
		if !errors.Is(err, domain.ErrUpstreamBadResponse) {
			t.Fatalf("body %s: expected bad response error, got %v", body, err)
		}
	}
}

func TestPythProviderParsedNotArray(t *testing.T) {
	t.Parallel()

	p := newTestPyth(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"parsed": {"id": "x"}}`), nil
	})

	_, err := p.FetchQuotes(context.Background())
	if !errors.Is(err, domain.ErrUpstreamBadResponse) {
		t.Fatalf("expected bad response error, got %v", err)
	}
}

func TestPythProviderTimeout(t *testing.T) {
	t.Parallel()

	p := newTestPyth(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.FetchQuotes(ctx)
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("fetch should stop at the context deadline")
	}
	if !strings.HasPrefix(err.Error(), "pyth:") {
		t.Fatalf("expected source prefix, got %v", err)
	}
}
