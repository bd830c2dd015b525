package futures

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"mbx/pkg/core"
)

// OpenOrder is one order on the open orders list.
type OpenOrder struct {
	Symbol        string       `json:"symbol"`
	OrderID       int64        `json:"orderId"`
	ClientOrderID string       `json:"clientOrderId"`
	Status        string       `json:"status"`
	Side          string       `json:"side"`
	PositionSide  string       `json:"positionSide"`
	Type          string       `json:"type"`
	OrigType      string       `json:"origType"`
	TimeInForce   string       `json:"timeInForce"`
	Price         apd.Decimal  `json:"price"`
	AvgPrice      apd.Decimal  `json:"avgPrice"`
	OrigQty       apd.Decimal  `json:"origQty"`
	ExecutedQty   apd.Decimal  `json:"executedQty"`
	CumQuote      apd.Decimal  `json:"cumQuote"`
	StopPrice     apd.Decimal  `json:"stopPrice"`
	ActivatePrice *apd.Decimal `json:"activatePrice"`
	PriceRate     *apd.Decimal `json:"priceRate"`
	ReduceOnly    bool         `json:"reduceOnly"`
	ClosePosition bool         `json:"closePosition"`
	PriceProtect  bool         `json:"priceProtect"`
	WorkingType   string       `json:"workingType"`
	Time          int64        `json:"time"`
	UpdateTime    int64        `json:"updateTime"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (o *OpenOrder) UnmarshalJSON(data []byte) error {
	type alias OpenOrder
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*o = OpenOrder(a)
	return nil
}

// OrderResponse is the exchange's acknowledgment of a placed or canceled
// futures order.
type OrderResponse struct {
	Symbol        string       `json:"symbol"`
	OrderID       int64        `json:"orderId"`
	ClientOrderID string       `json:"clientOrderId"`
	Status        string       `json:"status"`
	Side          string       `json:"side"`
	PositionSide  string       `json:"positionSide"`
	Type          string       `json:"type"`
	OrigType      string       `json:"origType"`
	TimeInForce   string       `json:"timeInForce"`
	Price         apd.Decimal  `json:"price"`
	AvgPrice      apd.Decimal  `json:"avgPrice"`
	OrigQty       apd.Decimal  `json:"origQty"`
	ExecutedQty   apd.Decimal  `json:"executedQty"`
	CumQty        apd.Decimal  `json:"cumQty"`
	CumQuote      apd.Decimal  `json:"cumQuote"`
	StopPrice     apd.Decimal  `json:"stopPrice"`
	ActivatePrice *apd.Decimal `json:"activatePrice"`
	PriceRate     *apd.Decimal `json:"priceRate"`
	ReduceOnly    bool         `json:"reduceOnly"`
	ClosePosition bool         `json:"closePosition"`
	PriceProtect  bool         `json:"priceProtect"`
	WorkingType   string       `json:"workingType"`
	UpdateTime    int64        `json:"updateTime"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (o *OrderResponse) UnmarshalJSON(data []byte) error {
	type alias OrderResponse
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*o = OrderResponse(a)
	return nil
}

// CancelOrderResponse acknowledges a canceled order.
type CancelOrderResponse struct {
	OrderID       int64       `json:"orderId"`
	Symbol        string      `json:"symbol"`
	Status        string      `json:"status"`
	ClientOrderID string      `json:"clientOrderId"`
	Price         apd.Decimal `json:"price"`
	AvgPrice      apd.Decimal `json:"avgPrice"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (c *CancelOrderResponse) UnmarshalJSON(data []byte) error {
	type alias CancelOrderResponse
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*c = CancelOrderResponse(a)
	return nil
}

// Position is one entry from the position risk endpoint.
type Position struct {
	Symbol           string      `json:"symbol"`
	PositionSide     string      `json:"positionSide"`
	PositionAmount   apd.Decimal `json:"positionAmt"`
	EntryPrice       apd.Decimal `json:"entryPrice"`
	MarkPrice        apd.Decimal `json:"markPrice"`
	LiquidationPrice apd.Decimal `json:"liquidationPrice"`
	UnrealizedProfit apd.Decimal `json:"unRealizedProfit"`
	Leverage         apd.Decimal `json:"leverage"`
	MarginType       string      `json:"marginType"`
	IsolatedMargin   apd.Decimal `json:"isolatedMargin"`
	MaxNotionalValue apd.Decimal `json:"maxNotionalValue"`
	AutoAddMargin    string      `json:"isAutoAddMargin"`
}

// ID identifies the position: the symbol plus the position side.
func (p *Position) ID() (string, string) {
	return p.Symbol, p.PositionSide
}

// BookTicker is the best bid and ask for one symbol.
type BookTicker struct {
	Symbol   string      `json:"symbol"`
	BidPrice apd.Decimal `json:"bidPrice"`
	BidQty   apd.Decimal `json:"bidQty"`
	AskPrice apd.Decimal `json:"askPrice"`
	AskQty   apd.Decimal `json:"askQty"`
	Time     *int64      `json:"time"`
}

// Kline is one candle from the kline endpoint. The exchange sends each
// candle as a positional JSON array, not an object.
type Kline struct {
	OpenTime            int64
	Open                apd.Decimal
	High                apd.Decimal
	Low                 apd.Decimal
	Close               apd.Decimal
	Volume              apd.Decimal
	CloseTime           int64
	QuoteVolume         apd.Decimal
	TradeCount          int64
	TakerBuyBaseVolume  apd.Decimal
	TakerBuyQuoteVolume apd.Decimal
}

// UnmarshalJSON decodes the positional kline row.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := sonic.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) < 11 {
		return fmt.Errorf("kline row has %d fields, want at least 11", len(row))
	}
	fields := []any{
		&k.OpenTime, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume,
		&k.CloseTime, &k.QuoteVolume, &k.TradeCount,
		&k.TakerBuyBaseVolume, &k.TakerBuyQuoteVolume,
	}
	for i, dst := range fields {
		if err := sonic.Unmarshal(row[i], dst); err != nil {
			return fmt.Errorf("kline field %d: %w", i, err)
		}
	}
	return nil
}

// ExchangeInfo describes the futures exchange's symbols and trading rules.
// The shape is a near-sibling of the spot one but diverges per field over
// time, so it is modeled separately.
type ExchangeInfo struct {
	RateLimits      []json.RawMessage          `json:"rateLimits"`
	ExchangeFilters []json.RawMessage          `json:"exchangeFilters"`
	Symbols         []SymbolInfo               `json:"symbols"`
	Extra           map[string]json.RawMessage `json:"-"`
}

func (e *ExchangeInfo) UnmarshalJSON(data []byte) error {
	type alias ExchangeInfo
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*e = ExchangeInfo(a)
	return nil
}

// SymbolInfo is one futures symbol's trading rules.
type SymbolInfo struct {
	Symbol            string                     `json:"symbol"`
	Status            string                     `json:"status"`
	ContractType      string                     `json:"contractType"`
	BaseAsset         string                     `json:"baseAsset"`
	QuoteAsset        string                     `json:"quoteAsset"`
	PricePrecision    int64                      `json:"pricePrecision"`
	QuantityPrecision int64                      `json:"quantityPrecision"`
	Filters           []SymbolFilter             `json:"filters"`
	Extra             map[string]json.RawMessage `json:"-"`
}

func (s *SymbolInfo) UnmarshalJSON(data []byte) error {
	type alias SymbolInfo
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*s = SymbolInfo(a)
	return nil
}

// Filter returns the filter with the given type name, or nil.
func (s *SymbolInfo) Filter(filterType string) *SymbolFilter {
	for i := range s.Filters {
		if s.Filters[i].FilterType == filterType {
			return &s.Filters[i]
		}
	}
	return nil
}

// IsTrading reports whether the symbol is currently tradable.
func (s *SymbolInfo) IsTrading() bool {
	return s.Status == "TRADING"
}

// SymbolFilter is one futures trading rule. The MIN_NOTIONAL threshold is
// named "notional" here, unlike spot's "minNotional".
type SymbolFilter struct {
	FilterType string `json:"filterType"`

	MinPrice *apd.Decimal `json:"minPrice"`
	MaxPrice *apd.Decimal `json:"maxPrice"`
	TickSize *apd.Decimal `json:"tickSize"`

	MinQty   *apd.Decimal `json:"minQty"`
	MaxQty   *apd.Decimal `json:"maxQty"`
	StepSize *apd.Decimal `json:"stepSize"`

	Notional *apd.Decimal `json:"notional"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (f *SymbolFilter) UnmarshalJSON(data []byte) error {
	type alias SymbolFilter
	var a alias
	if err := core.UnmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*f = SymbolFilter(a)
	return nil
}

// ListenKey identifies a user data stream.
type ListenKey struct {
	ListenKey string `json:"listenKey"`
}
