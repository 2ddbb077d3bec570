package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const predictionTerminalABI = `[
  {"type":"function","name":"getYesPrice","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getNoPrice","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getBuyingPower","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getDebt","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getCurrentShareValue","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"getHealthFactor","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"checkLiquidation","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"checkCriticalLiquidation","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"depositYes","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"depositNo","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"buyYesWithUsdc","inputs":[{"name":"usdcAmount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"buyNoWithUsdc","inputs":[{"name":"usdcAmount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"event","name":"MarketUpdate","anonymous":false,"inputs":[
    {"name":"marketId","type":"uint256","indexed":true},
    {"name":"yesPrice","type":"uint256","indexed":false},
    {"name":"noPrice","type":"uint256","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}
  ]}
]`

const leveragedTradingABI = `[
  {"type":"function","name":"getPosition","inputs":[{"name":"user","type":"address"},{"name":"symbol","type":"string"}],"outputs":[
    {"name":"usdAmount","type":"uint256"},
    {"name":"entryPrice","type":"uint256"},
    {"name":"timestamp","type":"uint256"},
    {"name":"unrealizedPnl","type":"int256"},
    {"name":"healthFactor","type":"uint256"}
  ],"stateMutability":"view"},
  {"type":"function","name":"openLong","inputs":[{"name":"symbol","type":"string"},{"name":"usdAmount18","type":"uint256"},{"name":"entryPrice18","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"closeLong","inputs":[{"name":"symbol","type":"string"},{"name":"exitPrice18","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"liquidatePosition","inputs":[{"name":"user","type":"address"},{"name":"symbol","type":"string"},{"name":"currentPrice18","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

const erc20ABI = `[
  {"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}
]`

const marketUpdateEvent = "MarketUpdate"

var (
	TerminalABI  = mustParseABI("prediction terminal", predictionTerminalABI)
	LeveragedABI = mustParseABI("leveraged trading", leveragedTradingABI)
	ERC20ABI     = mustParseABI("erc20", erc20ABI)
)

func mustParseABI(name, def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return parsed
}
