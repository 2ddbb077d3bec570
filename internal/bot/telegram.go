package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/service"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const replyTimeout = 10 * time.Second

type PriceReader interface {
	GetPrices(ctx context.Context) (*domain.PriceSet, error)
	GetQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error)
}

type AccountReader interface {
	Health(ctx context.Context, user common.Address) (*service.AccountHealth, error)
}

// Commands renders replies for the bot's commands. It is independent of
// telebot so replies can be tested without a Telegram connection.
type Commands struct {
	symbols  *domain.SymbolTable
	prices   PriceReader
	accounts AccountReader
}

func NewCommands(symbols *domain.SymbolTable, prices PriceReader, accounts AccountReader) *Commands {
	return &Commands{symbols: symbols, prices: prices, accounts: accounts}
}

func (c *Commands) supported() string {
	return strings.Join(c.symbols.Symbols(), ", ")
}

func (c *Commands) Prices(ctx context.Context) string {
	set, err := c.prices.GetPrices(ctx)
	if err != nil {
		return "Prices are unavailable right now, try again shortly."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Prices (%s)\n", set.Source)
	for _, sym := range c.symbols.Symbols() {
		q := set.Quote(sym)
		if q == nil {
			fmt.Fprintf(&b, "%s: n/a\n", sym)
			continue
		}
		fmt.Fprintf(&b, "%s: $%.2f\n", sym, q.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Commands) Price(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("Usage: /price BTC\nSupported: %s", c.supported())
	}
	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	q, err := c.prices.GetQuote(ctx, symbol)
	switch {
	case errors.Is(err, domain.ErrUnknownSymbol):
		return fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, c.supported())
	case err != nil:
		return fmt.Sprintf("Price for %s is unavailable right now.", symbol)
	}
	return fmt.Sprintf("%s\nPrice: $%.2f\nScaled: %s", symbol, q.Price, q.Price18)
}

func (c *Commands) Health(ctx context.Context, args []string) string {
	if c.accounts == nil {
		return "Account lookups are not configured."
	}
	if len(args) == 0 || !common.IsHexAddress(args[0]) {
		return "Usage: /health 0xADDRESS"
	}
	h, err := c.accounts.Health(ctx, common.HexToAddress(args[0]))
	if err != nil {
		return fmt.Sprintf("Could not read account health: %v", err)
	}
	state := "healthy"
	switch {
	case h.Health.IsDanger:
		state = "danger"
	case h.Health.IsWarning:
		state = "warning"
	}
	msg := fmt.Sprintf(
		"%s\nHealth: %.0f%% (%s)\nBuying power: %s\nDebt: %s\nUsage: %.2f%%",
		h.Address, h.Health.HealthFactorPct, state, h.BuyingPower.Display, h.Debt.Display, h.UsagePct,
	)
	if h.Liquidatable {
		msg += "\nLiquidatable"
	}
	return msg
}

var newTeleBot = tele.NewBot

// StartTelegramBot starts long polling in the background. An empty token
// disables the bot.
func StartTelegramBot(token string, logger *zap.Logger, cmds *Commands) (*tele.Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token == "" {
		logger.Info("telegram token not set, skipping bot startup")
		return nil, nil
	}
	b, err := newTeleBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	reply := func(render func(ctx context.Context, args []string) string) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
			defer cancel()
			return c.Send(render(ctx, c.Args()))
		}
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/prices", reply(func(ctx context.Context, _ []string) string { return cmds.Prices(ctx) }))
	b.Handle("/price", reply(cmds.Price))
	b.Handle("/health", reply(cmds.Health))

	logger.Info("telegram bot started")
	go b.Start()
	return b, nil
}
