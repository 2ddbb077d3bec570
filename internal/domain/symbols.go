package domain

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Asset is one tradable symbol and its identifiers at each price source.
type Asset struct {
	Symbol      string `yaml:"symbol" json:"symbol"`
	Name        string `yaml:"name" json:"name"`
	PythFeedID  string `yaml:"pyth_feed_id" json:"pyth_feed_id"`
	CoinGeckoID string `yaml:"coingecko_id" json:"coingecko_id"`
}

// DefaultAssets is the symbol set the leveraged-trading contract accepts.
var DefaultAssets = []Asset{
	{
		Symbol:      "SOL",
		Name:        "Solana",
		PythFeedID:  "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace",
		CoinGeckoID: "solana",
	},
	{
		Symbol:      "ETH",
		Name:        "Ethereum",
		PythFeedID:  "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874508cc0881",
		CoinGeckoID: "ethereum",
	},
	{
		Symbol:      "BTC",
		Name:        "Bitcoin",
		PythFeedID:  "e62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
		CoinGeckoID: "bitcoin",
	},
}

// SymbolTable is the single lookup for every subsystem that needs to
// enumerate or translate symbols.
type SymbolTable struct {
	assets      []Asset
	bySymbol    map[string]Asset
	byFeedID    map[string]string
	byCoinGecko map[string]string
}

// NewSymbolTable validates assets and indexes them. Symbols are upper-cased
// and feed ids normalized.
func NewSymbolTable(assets []Asset) (*SymbolTable, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("symbol table is empty")
	}

	t := &SymbolTable{
		assets:      make([]Asset, 0, len(assets)),
		bySymbol:    make(map[string]Asset, len(assets)),
		byFeedID:    make(map[string]string, len(assets)),
		byCoinGecko: make(map[string]string, len(assets)),
	}
	for _, a := range assets {
		a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
		a.PythFeedID = NormalizeFeedID(a.PythFeedID)
		a.CoinGeckoID = strings.TrimSpace(a.CoinGeckoID)

		if a.Symbol == "" {
			return nil, fmt.Errorf("asset with empty symbol")
		}
		if _, dup := t.bySymbol[a.Symbol]; dup {
			return nil, fmt.Errorf("duplicate symbol %s", a.Symbol)
		}
		if a.PythFeedID == "" && a.CoinGeckoID == "" {
			return nil, fmt.Errorf("symbol %s has no price source id", a.Symbol)
		}

		t.assets = append(t.assets, a)
		t.bySymbol[a.Symbol] = a
		if a.PythFeedID != "" {
			t.byFeedID[a.PythFeedID] = a.Symbol
		}
		if a.CoinGeckoID != "" {
			t.byCoinGecko[a.CoinGeckoID] = a.Symbol
		}
	}
	return t, nil
}

// MustSymbolTable is NewSymbolTable for static tables.
func MustSymbolTable(assets []Asset) *SymbolTable {
	t, err := NewSymbolTable(assets)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultSymbolTable returns the built-in SOL/ETH/BTC table.
func DefaultSymbolTable() *SymbolTable {
	return MustSymbolTable(DefaultAssets)
}

// LoadSymbolTable reads a YAML list of assets. An empty path yields the
// default table.
func LoadSymbolTable(path string) (*SymbolTable, error) {
	if path == "" {
		return DefaultSymbolTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	var assets []Asset
	if err := yaml.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("parse symbols file %s: %w", path, err)
	}
	return NewSymbolTable(assets)
}

// Symbols lists symbols in table order.
func (t *SymbolTable) Symbols() []string {
	out := make([]string, len(t.assets))
	for i, a := range t.assets {
		out[i] = a.Symbol
	}
	return out
}

// Assets returns a copy of the table rows.
func (t *SymbolTable) Assets() []Asset {
	return append([]Asset(nil), t.assets...)
}

// Lookup finds an asset by symbol, case-insensitively.
func (t *SymbolTable) Lookup(symbol string) (Asset, bool) {
	a, ok := t.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return a, ok
}

// SymbolForFeedID resolves an oracle feed id, with or without 0x, any case.
func (t *SymbolTable) SymbolForFeedID(id string) (string, bool) {
	sym, ok := t.byFeedID[NormalizeFeedID(id)]
	return sym, ok
}

// SymbolForCoinGeckoID resolves a CoinGecko asset id.
func (t *SymbolTable) SymbolForCoinGeckoID(id string) (string, bool) {
	sym, ok := t.byCoinGecko[id]
	return sym, ok
}

// FeedIDs lists the configured oracle feed ids in table order.
func (t *SymbolTable) FeedIDs() []string {
	ids := make([]string, 0, len(t.assets))
	for _, a := range t.assets {
		if a.PythFeedID != "" {
			ids = append(ids, a.PythFeedID)
		}
	}
	return ids
}

// CoinGeckoIDs lists the configured CoinGecko ids in table order.
func (t *SymbolTable) CoinGeckoIDs() []string {
	ids := make([]string, 0, len(t.assets))
	for _, a := range t.assets {
		if a.CoinGeckoID != "" {
			ids = append(ids, a.CoinGeckoID)
		}
	}
	return ids
}

// NormalizeFeedID lower-cases id and strips an optional 0x prefix.
func NormalizeFeedID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.TrimPrefix(id, "0x")
}
