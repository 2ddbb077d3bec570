package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prediction-terminal/internal/bot"
	"prediction-terminal/internal/cache"
	"prediction-terminal/internal/config"
	"prediction-terminal/internal/contract"
	"prediction-terminal/internal/cronrunner"
	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/handler"
	"prediction-terminal/internal/job"
	"prediction-terminal/internal/logger"
	"prediction-terminal/internal/provider"
	"prediction-terminal/internal/service"
	"prediction-terminal/internal/stream"
	"prediction-terminal/pkg/tracing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	_ "prediction-terminal/docs"
)

const cronJobTimeout = 30 * time.Second

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	newLoggerFunc   = logger.New
	initRedisFunc   = cache.InitRedis
	initTracerFunc  = tracing.InitTracer
	loadSymbolsFunc = func(path string) (*domain.SymbolTable, error) {
		if path == "" {
			return domain.DefaultSymbolTable(), nil
		}
		return domain.LoadSymbolTable(path)
	}
	newPrimarySourceFunc = func(tracer trace.Tracer, symbols *domain.SymbolTable) service.QuoteSource {
		return provider.NewPythProvider(tracer, symbols)
	}
	newFallbackSourceFunc = func(tracer trace.Tracer, symbols *domain.SymbolTable) service.QuoteSource {
		return provider.NewCoinGeckoProvider(tracer, symbols)
	}
	dialChainFunc = func(ctx context.Context, url string) (contract.Backend, func(), error) {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	newPriceServiceFunc    = service.NewPriceService
	newPricePollerFunc     = job.NewPricePoller
	startPollerFunc        = func(p *job.PricePoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Prediction Terminal API
// @version         1.0
// @description     Price resolution, account risk and liquidation keeper for the prediction terminal contracts.

// @host      localhost:8080
// @BasePath  /
func main() {
	if err := loadEnvFunc(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	cfg := loadConfigFunc()

	lg, err := newLoggerFunc(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.OTLPEndpoint,
	})
	if err != nil {
		lg.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			lg.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	symbols, err := loadSymbolsFunc(cfg.SymbolsFile)
	if err != nil {
		lg.Fatal("failed to load symbol table", zap.String("path", cfg.SymbolsFile), zap.Error(err))
	}

	// The price cache is advisory; run without it if Redis is down.
	var redisClient service.RedisClient
	if rc, err := initRedisFunc(ctx, lg, cfg.RedisURL); err != nil {
		lg.Warn("redis unavailable, price cache disabled", zap.Error(err))
	} else if rc != nil {
		redisClient = rc
		defer rc.Close()
	}

	priceService := newPriceServiceFunc(
		tracer,
		lg.Named("prices"),
		symbols,
		newPrimarySourceFunc(tracer, symbols),
		newFallbackSourceFunc(tracer, symbols),
		redisClient,
		service.PriceServiceConfig{
			UpstreamTimeout: cfg.UpstreamTimeout(),
			CacheTTL:        cfg.PriceCacheTTL(),
		},
	)

	poller := newPricePollerFunc(tracer, lg.Named("poller"), priceService, cfg.PricePollSecs)
	startPollerFunc(poller, ctx)

	hub := stream.NewHub(lg.Named("stream"), priceService)
	go hub.Run(ctx, time.Duration(cfg.PricePollSecs)*time.Second)

	h := newHandlerFunc(tracer, lg.Named("http"), symbols, priceService)
	h.SetCachePolicy(handler.CachePolicy{
		MaxAge:               cfg.PriceCacheTTL(),
		StaleWhileRevalidate: cfg.PriceStale(),
	})
	h.SetPriceStream(hub)

	var (
		accounts bot.AccountReader
		runner   *cronrunner.Runner
	)
	if cfg.RPCURL != "" {
		backend, closeChain, err := dialChainFunc(ctx, cfg.RPCURL)
		if err != nil {
			lg.Error("failed to dial rpc, contract endpoints disabled", zap.Error(err))
		} else {
			defer closeChain()

			chain := contract.NewClient(backend, contractAddresses(lg, cfg.Contracts), tracer, lg.Named("contract"))
			accountService := service.NewAccountService(tracer, lg.Named("accounts"), symbols, chain, priceService)
			h.SetAccountService(accountService)
			accounts = accountService

			if cfg.Keeper.Enabled {
				runner = startKeeper(ctx, lg, tracer, cfg.Keeper, symbols, chain, priceService, h)
			}
		}
	}
	if runner != nil {
		defer runner.Stop()
	}

	if _, err := startTelegramBotFunc(cfg.TelegramBotToken, lg.Named("bot"), bot.NewCommands(symbols, priceService, accounts)); err != nil {
		lg.Error("telegram bot disabled", zap.Error(err))
	}

	r := newRouterFunc()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(handler.RequestLogger(lg.Named("http")))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		lg.Info("http server listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	lg.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		lg.Fatal("server forced to shutdown", zap.Error(err))
	}

	lg.Info("server exiting")
}

// startKeeper loads the keeper key, wires the liquidation and trading routes
// and schedules the sweep. It returns nil when the keeper cannot run.
func startKeeper(
	ctx context.Context,
	lg *zap.Logger,
	tracer trace.Tracer,
	cfg config.KeeperConfig,
	symbols *domain.SymbolTable,
	chain *contract.Client,
	prices *service.PriceService,
	h *handler.Handler,
) *cronrunner.Runner {
	if err := chain.WithSigner(cfg.PrivateKey); err != nil {
		lg.Error("keeper disabled", zap.Error(err))
		return nil
	}
	signer, _ := chain.Signer()

	var watch []common.Address
	for _, raw := range cfg.Watch {
		addr, err := contract.ParseAddress(raw)
		if err != nil {
			lg.Warn("skipping keeper watch address", zap.Error(err))
			continue
		}
		watch = append(watch, addr)
	}

	keeper := service.NewKeeperService(tracer, lg.Named("keeper"), symbols, chain, prices, watch)
	h.SetLiquidator(keeper)
	h.SetTrader(service.NewTradingService(tracer, lg.Named("trading"), symbols, chain, prices))

	runner := cronrunner.New(lg.Named("cron"), ctx, cronJobTimeout)
	sweep := job.NewLiquidationJob(tracer, lg.Named("keeper"), keeper)
	if err := sweep.Register(runner, cfg.Schedule); err != nil {
		lg.Error("invalid keeper schedule, sweep not scheduled", zap.String("schedule", cfg.Schedule), zap.Error(err))
	} else {
		h.SetSweepStats(sweep)
	}
	runner.Start()

	lg.Info("keeper started",
		zap.String("signer", signer.Hex()),
		zap.Int("watched", len(keeper.Watched())),
		zap.String("schedule", cfg.Schedule),
	)
	return runner
}

func contractAddresses(lg *zap.Logger, cfg config.ContractConfig) contract.Addresses {
	parse := func(name, raw string) common.Address {
		if raw == "" {
			return common.Address{}
		}
		addr, err := contract.ParseAddress(raw)
		if err != nil {
			lg.Warn("ignoring contract address", zap.String("contract", name), zap.Error(err))
			return common.Address{}
		}
		return addr
	}
	return contract.Addresses{
		PredictionTerminal: parse("prediction_terminal", cfg.PredictionTerminal),
		LeveragedTrading:   parse("leveraged_trading", cfg.LeveragedTrading),
		MockUSDC:           parse("mock_usdc", cfg.MockUSDC),
		YesToken:           parse("yes_token", cfg.YesToken),
		NoToken:            parse("no_token", cfg.NoToken),
	}
}
