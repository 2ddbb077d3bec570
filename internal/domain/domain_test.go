package domain

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSymbolTable(t *testing.T) {
	table := DefaultSymbolTable()
	got := table.Symbols()
	if len(got) != 3 || got[0] != "SOL" || got[1] != "ETH" || got[2] != "BTC" {
		t.Fatalf("unexpected symbols: %v", got)
	}
	if len(table.FeedIDs()) != 3 || len(table.CoinGeckoIDs()) != 3 {
		t.Fatalf("expected 3 feed ids and 3 coingecko ids")
	}
}

func TestSymbolForFeedIDNormalizes(t *testing.T) {
	table := DefaultSymbolTable()
	ids := []string{
		"e62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
		"0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43",
		"0XE62DF6C8B4A85FE1A67DB44DC12DE5DB330F7AC66B72DC658AFEDF0F4A415B43",
	}
	for _, id := range ids {
		sym, ok := table.SymbolForFeedID(id)
		if !ok || sym != "BTC" {
			t.Fatalf("feed id %s resolved to %q (%v)", id, sym, ok)
		}
	}
	if _, ok := table.SymbolForFeedID("deadbeef"); ok {
		t.Fatal("unexpected match for unknown feed id")
	}
}

func TestSymbolLookups(t *testing.T) {
	table := DefaultSymbolTable()
	if sym, ok := table.SymbolForCoinGeckoID("solana"); !ok || sym != "SOL" {
		t.Fatalf("coingecko lookup failed: %q %v", sym, ok)
	}
	if a, ok := table.Lookup(" eth "); !ok || a.Name != "Ethereum" {
		t.Fatalf("lookup failed: %+v %v", a, ok)
	}
	if _, ok := table.Lookup("DOGE"); ok {
		t.Fatal("DOGE should not be configured")
	}
}

func TestNewSymbolTableValidation(t *testing.T) {
	cases := map[string][]Asset{
		"empty":     nil,
		"no symbol": {{CoinGeckoID: "bitcoin"}},
		"duplicate": {{Symbol: "BTC", CoinGeckoID: "bitcoin"}, {Symbol: "btc", CoinGeckoID: "bitcoin"}},
		"no source": {{Symbol: "BTC"}},
	}
	for name, assets := range cases {
		if _, err := NewSymbolTable(assets); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadSymbolTableFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	body := `
- symbol: avax
  name: Avalanche
  pyth_feed_id: "0x93DA3352F9F1D105FDFE4971CFA80E9DD777BFC5D0F683EBB6E1294B92137BB7"
  coingecko_id: avalanche-2
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadSymbolTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, ok := table.Lookup("AVAX")
	if !ok {
		t.Fatal("AVAX not loaded")
	}
	if a.PythFeedID != "93da3352f9f1d105fdfe4971cfa80e9dd777bfc5d0f683ebb6e1294b92137bb7" {
		t.Fatalf("feed id not normalized: %s", a.PythFeedID)
	}

	if table, err := LoadSymbolTable(""); err != nil || len(table.Symbols()) != 3 {
		t.Fatalf("empty path should load defaults, got %v", err)
	}
	if _, err := LoadSymbolTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewPriceQuoteDerivesScaledForm(t *testing.T) {
	q := NewPriceQuote("SOL", 142.5)
	if q.Price18 != "142500000000000000000" {
		t.Fatalf("unexpected price18: %s", q.Price18)
	}
	if q.Scaled().Cmp(big.NewInt(0).Mul(big.NewInt(1425), big.NewInt(1e17))) != 0 {
		t.Fatalf("unexpected scaled value: %s", q.Scaled())
	}
}

func TestPriceSetQuote(t *testing.T) {
	var nilSet *PriceSet
	if nilSet.Quote("BTC") != nil {
		t.Fatal("nil set should return nil quote")
	}
	set := &PriceSet{Quotes: map[string]*PriceQuote{"BTC": NewPriceQuote("BTC", 1)}}
	if set.Quote("BTC") == nil || set.Quote("ETH") != nil {
		t.Fatal("unexpected quote lookup result")
	}
}

func TestPositionSnapshotOpen(t *testing.T) {
	var nilPos *PositionSnapshot
	if nilPos.Open() {
		t.Fatal("nil snapshot is not open")
	}
	if (&PositionSnapshot{PositionSizeUSD: big.NewInt(0)}).Open() {
		t.Fatal("zero-size snapshot is not open")
	}
	if !(&PositionSnapshot{PositionSizeUSD: big.NewInt(1)}).Open() {
		t.Fatal("positive size should be open")
	}
}
