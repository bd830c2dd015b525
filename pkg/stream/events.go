package stream

import (
	"github.com/cockroachdb/apd/v3"

	"mbx/pkg/core"
)

// Event is one decoded inbound message. Known business kinds carry typed
// payloads; unrecognized or malformed payloads surface through the
// UnknownEvent, ParseErrorEvent, and RawFrameEvent fallbacks so new exchange
// event kinds never break existing consumers.
type Event interface {
	isEvent()
}

func (*KlineEvent) isEvent()         {}
func (*AggTradeEvent) isEvent()      {}
func (*OrderUpdateEvent) isEvent()   {}
func (*AccountUpdateEvent) isEvent() {}
func (*LiquidationEvent) isEvent()   {}
func (*TickerEvent) isEvent()        {}
func (*PingEvent) isEvent()          {}
func (*UnknownEvent) isEvent()       {}
func (*ParseErrorEvent) isEvent()    {}
func (*RawFrameEvent) isEvent()      {}

// KlineEvent is a candlestick update.
type KlineEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Kline     Kline  `json:"k"`
}

// Kline is the candle payload of a KlineEvent.
type Kline struct {
	OpenTime  int64         `json:"t"`
	CloseTime int64         `json:"T"`
	Symbol    string        `json:"s"`
	Interval  core.Interval `json:"i"`
	Open      apd.Decimal   `json:"o"`
	Close     apd.Decimal   `json:"c"`
	High      apd.Decimal   `json:"h"`
	Low       apd.Decimal   `json:"l"`
	Volume    apd.Decimal   `json:"v"`
	Closed    bool          `json:"x"`
}

// AggTradeEvent is an aggregated trade.
type AggTradeEvent struct {
	EventType    string      `json:"e"`
	EventTime    int64       `json:"E"`
	Symbol       string      `json:"s"`
	AggTradeID   int64       `json:"a"`
	Price        apd.Decimal `json:"p"`
	Quantity     apd.Decimal `json:"q"`
	FirstTradeID int64       `json:"f"`
	LastTradeID  int64       `json:"l"`
	TradeTime    int64       `json:"T"`
	BuyerMaker   bool        `json:"m"`
}

// OrderUpdateEvent is a user-stream order state change.
type OrderUpdateEvent struct {
	EventType       string      `json:"e"`
	EventTime       int64       `json:"E"`
	TransactionTime int64       `json:"T"`
	Order           OrderUpdate `json:"o"`
}

// OrderUpdate is the order payload of an OrderUpdateEvent.
type OrderUpdate struct {
	Symbol           string       `json:"s"`
	ClientOrderID    string       `json:"c"`
	Side             string       `json:"S"`
	OrderType        string       `json:"o"`
	TimeInForce      string       `json:"f"`
	OrigQuantity     apd.Decimal  `json:"q"`
	OrigPrice        apd.Decimal  `json:"p"`
	AvgPrice         apd.Decimal  `json:"ap"`
	StopPrice        apd.Decimal  `json:"sp"`
	ExecutionType    string       `json:"x"`
	OrderStatus      string       `json:"X"`
	OrderID          int64        `json:"i"`
	LastFillQuantity apd.Decimal  `json:"l"`
	CumFillQuantity  apd.Decimal  `json:"z"`
	LastFillPrice    apd.Decimal  `json:"L"`
	CommissionAsset  string       `json:"N"`
	Commission       *apd.Decimal `json:"n"`
	TradeTime        int64        `json:"T"`
	TradeID          int64        `json:"t"`
	BidsNotional     apd.Decimal  `json:"b"`
	AsksNotional     apd.Decimal  `json:"a"`
	Maker            bool         `json:"m"`
	ReduceOnly       bool         `json:"R"`
	WorkingType      string       `json:"wt"`
	OrigOrderType    string       `json:"ot"`
	PositionSide     string       `json:"ps"`
	ClosePosition    bool         `json:"cp"`
	ActivationPrice  *apd.Decimal `json:"AP"`
	CallbackRate     *apd.Decimal `json:"cr"`
	RealizedProfit   apd.Decimal  `json:"rp"`
}

// AccountUpdateEvent is a user-stream balance and position update.
type AccountUpdateEvent struct {
	EventType       string        `json:"e"`
	EventTime       int64         `json:"E"`
	TransactionTime int64         `json:"T"`
	Update          AccountUpdate `json:"a"`
}

// AccountUpdate is the payload of an AccountUpdateEvent.
type AccountUpdate struct {
	Reason    string           `json:"m"`
	Balances  []BalanceUpdate  `json:"B"`
	Positions []PositionUpdate `json:"P"`
}

// BalanceUpdate is one asset balance within an account update.
type BalanceUpdate struct {
	Asset              string      `json:"a"`
	WalletBalance      apd.Decimal `json:"wb"`
	CrossWalletBalance apd.Decimal `json:"cw"`
}

// PositionUpdate is one position within an account update.
type PositionUpdate struct {
	Symbol              string      `json:"s"`
	PositionAmount      apd.Decimal `json:"pa"`
	EntryPrice          apd.Decimal `json:"ep"`
	AccumulatedRealized apd.Decimal `json:"cr"`
	UnrealizedProfit    apd.Decimal `json:"up"`
	MarginType          string      `json:"mt"`
	IsolatedWallet      apd.Decimal `json:"iw"`
	PositionSide        string      `json:"ps"`
}

// LiquidationEvent is a forced liquidation order.
type LiquidationEvent struct {
	EventType string           `json:"e"`
	EventTime int64            `json:"E"`
	Order     LiquidationOrder `json:"o"`
}

// LiquidationOrder is the order payload of a LiquidationEvent.
type LiquidationOrder struct {
	Symbol           string      `json:"s"`
	Side             string      `json:"S"`
	OrderType        string      `json:"o"`
	TimeInForce      string      `json:"f"`
	Quantity         apd.Decimal `json:"q"`
	Price            apd.Decimal `json:"p"`
	AvgPrice         apd.Decimal `json:"ap"`
	OrderStatus      string      `json:"X"`
	LastFillQuantity apd.Decimal `json:"l"`
	CumFillQuantity  apd.Decimal `json:"z"`
	TradeTime        int64       `json:"T"`
}

// TickerEvent is a rolling 24-hour statistics update.
type TickerEvent struct {
	EventType          string      `json:"e"`
	EventTime          int64       `json:"E"`
	Symbol             string      `json:"s"`
	PriceChange        apd.Decimal `json:"p"`
	PriceChangePercent apd.Decimal `json:"P"`
	WeightedAvgPrice   apd.Decimal `json:"w"`
	LastPrice          apd.Decimal `json:"c"`
	LastQuantity       apd.Decimal `json:"Q"`
	OpenPrice          apd.Decimal `json:"o"`
	HighPrice          apd.Decimal `json:"h"`
	LowPrice           apd.Decimal `json:"l"`
	Volume             apd.Decimal `json:"v"`
	QuoteVolume        apd.Decimal `json:"q"`
	OpenTime           int64       `json:"O"`
	CloseTime          int64       `json:"C"`
	FirstTradeID       int64       `json:"F"`
	LastTradeID        int64       `json:"L"`
	TradeCount         int64       `json:"n"`
}

// PingEvent reports a keepalive frame. Informational only: the connection
// already answered it at the transport level.
type PingEvent struct {
	Payload []byte
}

// UnknownEvent carries a well-formed message whose discriminator is not a
// known kind.
type UnknownEvent struct {
	Text string
}

// ParseErrorEvent carries a text frame that was not valid JSON, preserving
// the offending text.
type ParseErrorEvent struct {
	Err  error
	Text string
}

// RawFrameEvent carries a non-text frame that should not occur in normal
// operation.
type RawFrameEvent struct {
	Frame Frame
}
