package spot

import (
	"encoding/json"

	"github.com/cockroachdb/apd/v3"

	"mbx/pkg/core"
)

// Account is the spot account state.
type Account struct {
	CanTrade bool      `json:"canTrade"`
	Balances []Balance `json:"balances"`
}

// Balance is one asset's free and locked amounts.
type Balance struct {
	Asset  string      `json:"asset"`
	Free   apd.Decimal `json:"free"`
	Locked apd.Decimal `json:"locked"`
}

// Total returns free plus locked.
func (b *Balance) Total() (*apd.Decimal, error) {
	var total apd.Decimal
	if _, err := apd.BaseContext.Add(&total, &b.Free, &b.Locked); err != nil {
		return nil, err
	}
	return &total, nil
}

// OrderRequest describes a new spot order. Quantities and prices are passed
// as pre-formatted strings so the caller controls precision; they become
// form fields verbatim.
type OrderRequest struct {
	Symbol string
	Side   core.Side
	Type   core.OrderType
	// Quantity is the base-asset amount. Optional for quote-quantity
	// market orders.
	Quantity string
	// QuoteOrderQty is the quote-asset amount for market orders.
	QuoteOrderQty string
	// Price is required for limit orders.
	Price string
	// TimeInForce is required for limit orders.
	TimeInForce core.TimeInForce
}

// Form serializes the request in a fixed field order.
func (r *OrderRequest) Form() *core.Form {
	form := core.NewForm().
		Add("symbol", r.Symbol).
		Add("side", string(r.Side)).
		Add("type", string(r.Type))
	if r.Quantity != "" {
		form.Add("quantity", r.Quantity)
	}
	if r.QuoteOrderQty != "" {
		form.Add("quoteOrderQty", r.QuoteOrderQty)
	}
	if r.Price != "" {
		form.Add("price", r.Price)
	}
	if r.TimeInForce != "" {
		form.Add("timeInForce", string(r.TimeInForce))
	}
	return form
}

// OrderResponse is the exchange's acknowledgment of a placed spot order.
type OrderResponse struct {
	Symbol              string      `json:"symbol"`
	OrderID             int64       `json:"orderId"`
	OrderListID         int64       `json:"orderListId"`
	ClientOrderID       string      `json:"clientOrderId"`
	TransactTime        int64       `json:"transactTime"`
	Price               apd.Decimal `json:"price"`
	OrigQty             apd.Decimal `json:"origQty"`
	ExecutedQty         apd.Decimal `json:"executedQty"`
	CummulativeQuoteQty apd.Decimal `json:"cummulativeQuoteQty"`
	Status              string      `json:"status"`
	TimeInForce         string      `json:"timeInForce"`
	Type                string      `json:"type"`
	Side                string      `json:"side"`
	Fills               []Fill      `json:"fills"`
}

// Fill is one execution of an order.
type Fill struct {
	Price           apd.Decimal `json:"price"`
	Qty             apd.Decimal `json:"qty"`
	Commission      apd.Decimal `json:"commission"`
	CommissionAsset string      `json:"commissionAsset"`
	TradeID         int64       `json:"tradeId"`
}

// TickerPrice is one symbol's latest price.
type TickerPrice struct {
	Symbol string      `json:"symbol"`
	Price  apd.Decimal `json:"price"`
}

// ExchangeInfo describes the exchange's trading rules and symbols. Extra
// keeps top-level fields the exchange adds over time.
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

// SymbolInfo is one symbol's trading rules.
type SymbolInfo struct {
	Symbol              string                     `json:"symbol"`
	Status              string                     `json:"status"`
	BaseAsset           string                     `json:"baseAsset"`
	BaseAssetPrecision  int64                      `json:"baseAssetPrecision"`
	QuoteAsset          string                     `json:"quoteAsset"`
	QuoteAssetPrecision *int64                     `json:"quoteAssetPrecision"`
	Filters             []SymbolFilter             `json:"filters"`
	Extra               map[string]json.RawMessage `json:"-"`
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

// LotSizeFilter returns the LOT_SIZE filter, or nil.
func (s *SymbolInfo) LotSizeFilter() *SymbolFilter {
	return s.Filter("LOT_SIZE")
}

// PriceFilter returns the PRICE_FILTER filter, or nil.
func (s *SymbolInfo) PriceFilter() *SymbolFilter {
	return s.Filter("PRICE_FILTER")
}

// IsTrading reports whether the symbol is currently tradable.
func (s *SymbolInfo) IsTrading() bool {
	return s.Status == "TRADING"
}

// SymbolFilter is one trading rule. Fields are populated according to
// FilterType; the futures MIN_NOTIONAL filter calls its threshold "notional"
// where spot calls it "minNotional".
type SymbolFilter struct {
	FilterType string `json:"filterType"`

	// PRICE_FILTER
	MinPrice *apd.Decimal `json:"minPrice"`
	MaxPrice *apd.Decimal `json:"maxPrice"`
	TickSize *apd.Decimal `json:"tickSize"`

	// LOT_SIZE
	MinQty   *apd.Decimal `json:"minQty"`
	MaxQty   *apd.Decimal `json:"maxQty"`
	StepSize *apd.Decimal `json:"stepSize"`

	// MIN_NOTIONAL
	MinNotional *apd.Decimal `json:"minNotional"`
	Notional    *apd.Decimal `json:"notional"`

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
