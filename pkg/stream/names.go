package stream

import (
	"strings"

	"mbx/pkg/core"
)

// TradeStream returns the channel name for raw trades.
func TradeStream(symbol string) string {
	return strings.ToLower(symbol) + "@trade"
}

// AggTradeStream returns the channel name for aggregated trades.
func AggTradeStream(symbol string) string {
	return strings.ToLower(symbol) + "@aggTrade"
}

// KlineStream returns the channel name for candlesticks at the given
// interval.
func KlineStream(symbol string, interval core.Interval) string {
	return strings.ToLower(symbol) + "@kline_" + string(interval)
}

// TickerStream returns the channel name for rolling 24-hour statistics.
func TickerStream(symbol string) string {
	return strings.ToLower(symbol) + "@ticker"
}

// LiquidationStream returns the channel name for forced liquidation orders.
func LiquidationStream(symbol string) string {
	return strings.ToLower(symbol) + "@forceOrder"
}
