package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string
	APIKey   string

	TelegramBotToken string
	RedisURL         string

	PricePollSecs       int
	PriceCacheTTLSecs   int
	PriceStaleSecs      int
	UpstreamTimeoutSecs int
	SymbolsFile         string

	RPCURL    string
	Contracts ContractConfig
	Keeper    KeeperConfig

	Log     LogConfig
	Tracing TracingConfig
}

type ContractConfig struct {
	PredictionTerminal string
	LeveragedTrading   string
	MockUSDC           string
	YesToken           string
	NoToken            string
}

type KeeperConfig struct {
	Enabled    bool
	PrivateKey string
	Watch      []string
	Schedule   string
}

type LogConfig struct {
	Level             string
	Encoding          string
	Development       bool
	DisableStacktrace bool
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSecs) * time.Second
}

func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTLSecs) * time.Second
}

func (c *Config) PriceStale() time.Duration {
	return time.Duration(c.PriceStaleSecs) * time.Second
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PRICE_POLL_SECS", 20)
	v.SetDefault("PRICE_CACHE_TTL_SECS", 30)
	v.SetDefault("PRICE_STALE_SECS", 60)
	v.SetDefault("UPSTREAM_TIMEOUT_SECS", 5)
	v.SetDefault("KEEPER_ENABLED", false)
	v.SetDefault("KEEPER_SCHEDULE", "@every 10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("LOG_DEVELOPMENT", false)
	v.SetDefault("TRACING_ENABLED", true)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Warning: could not read CONFIG_FILE %q: %v", path, err)
		}
	}
	return v
}

func Load() *Config {
	v := newViper()

	cfg := &Config{
		HTTPAddr:         strings.TrimSpace(v.GetString("HTTP_ADDR")),
		APIKey:           v.GetString("API_KEY"),
		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		SymbolsFile:      strings.TrimSpace(v.GetString("SYMBOLS_FILE")),
		RPCURL:           strings.TrimSpace(v.GetString("RPC_URL")),
		Contracts: ContractConfig{
			PredictionTerminal: strings.TrimSpace(v.GetString("PREDICTION_TERMINAL_ADDRESS")),
			LeveragedTrading:   strings.TrimSpace(v.GetString("LEVERAGED_TRADING_ADDRESS")),
			MockUSDC:           strings.TrimSpace(v.GetString("MOCK_USDC_ADDRESS")),
			YesToken:           strings.TrimSpace(v.GetString("YES_TOKEN_ADDRESS")),
			NoToken:            strings.TrimSpace(v.GetString("NO_TOKEN_ADDRESS")),
		},
		Keeper: KeeperConfig{
			Enabled:    v.GetBool("KEEPER_ENABLED"),
			PrivateKey: strings.TrimSpace(v.GetString("KEEPER_PRIVATE_KEY")),
			Watch:      splitList(v.GetString("KEEPER_WATCH_ADDRESSES")),
			Schedule:   strings.TrimSpace(v.GetString("KEEPER_SCHEDULE")),
		},
		Log: LogConfig{
			Level:       strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
			Encoding:    strings.ToLower(strings.TrimSpace(v.GetString("LOG_ENCODING"))),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool("TRACING_ENABLED"),
			OTLPEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		},
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, bot will be disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.RPCURL == "" {
		log.Println("Warning: RPC_URL not set, contract endpoints will be disabled")
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, liquidation routes are unprotected")
	}

	cfg.PricePollSecs = positiveInt(v, "PRICE_POLL_SECS", 20)
	cfg.PriceCacheTTLSecs = positiveInt(v, "PRICE_CACHE_TTL_SECS", 30)
	cfg.PriceStaleSecs = positiveInt(v, "PRICE_STALE_SECS", 60)
	cfg.UpstreamTimeoutSecs = positiveInt(v, "UPSTREAM_TIMEOUT_SECS", 5)

	if cfg.Keeper.Schedule == "" {
		cfg.Keeper.Schedule = "@every 10s"
	}
	if cfg.Keeper.Enabled && cfg.Keeper.PrivateKey == "" {
		log.Println("Warning: KEEPER_ENABLED without KEEPER_PRIVATE_KEY, keeper will be disabled")
		cfg.Keeper.Enabled = false
	}

	switch cfg.Log.Encoding {
	case "json", "console":
	default:
		log.Printf("Warning: unsupported LOG_ENCODING=%q, defaulting to json", cfg.Log.Encoding)
		cfg.Log.Encoding = "json"
	}

	return cfg
}

// positiveInt reads key as an int and falls back to def when it is missing,
// malformed, or not positive.
func positiveInt(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	n := v.GetInt(key)
	if n <= 0 {
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
