package futures

import (
	"strconv"
	"strings"

	"mbx/pkg/core"
)

// NewOrder describes a new futures order. Quantities and prices are passed
// as pre-formatted strings so the caller controls precision. Constructors
// cover the common shapes; optional fields can be set directly or through
// the chaining helpers.
type NewOrder struct {
	Symbol string
	Side   core.Side
	Type   core.OrderType

	PositionSide  core.PositionSide
	Quantity      string
	Price         string
	TimeInForce   core.TimeInForce
	ReduceOnly    *bool
	StopPrice     string
	ClientOrderID string
	ClosePosition *bool
}

// NewOrderRequest returns an order with only the required fields set. The
// symbol is uppercased.
func NewOrderRequest(symbol string, side core.Side, orderType core.OrderType) *NewOrder {
	return &NewOrder{
		Symbol: strings.ToUpper(symbol),
		Side:   side,
		Type:   orderType,
	}
}

// NewMarketBuy returns a market buy for the given base quantity.
func NewMarketBuy(symbol, quantity string) *NewOrder {
	order := NewOrderRequest(symbol, core.SideBuy, core.OrderTypeMarket)
	order.Quantity = quantity
	return order
}

// NewMarketSell returns a market sell for the given base quantity.
func NewMarketSell(symbol, quantity string) *NewOrder {
	order := NewOrderRequest(symbol, core.SideSell, core.OrderTypeMarket)
	order.Quantity = quantity
	return order
}

// NewLimitBuy returns a GTC limit buy.
func NewLimitBuy(symbol, price, quantity string) *NewOrder {
	order := NewOrderRequest(symbol, core.SideBuy, core.OrderTypeLimit)
	order.Price = price
	order.Quantity = quantity
	order.TimeInForce = core.TimeInForceGTC
	return order
}

// NewLimitSell returns a GTC limit sell.
func NewLimitSell(symbol, price, quantity string) *NewOrder {
	order := NewOrderRequest(symbol, core.SideSell, core.OrderTypeLimit)
	order.Price = price
	order.Quantity = quantity
	order.TimeInForce = core.TimeInForceGTC
	return order
}

// WithClientOrderID sets the caller-chosen order identifier.
func (o *NewOrder) WithClientOrderID(id string) *NewOrder {
	o.ClientOrderID = id
	return o
}

// WithReduceOnly marks the order as position-reducing only.
func (o *NewOrder) WithReduceOnly() *NewOrder {
	v := true
	o.ReduceOnly = &v
	return o
}

// WithPostOnly makes the order post-only by switching it to GTX.
func (o *NewOrder) WithPostOnly() *NewOrder {
	o.TimeInForce = core.TimeInForceGTX
	return o
}

// Form serializes the order in a fixed field order.
func (o *NewOrder) Form() *core.Form {
	form := core.NewForm().
		Add("symbol", o.Symbol).
		Add("side", string(o.Side)).
		Add("type", string(o.Type))
	if o.PositionSide != "" {
		form.Add("positionSide", string(o.PositionSide))
	}
	if o.Quantity != "" {
		form.Add("quantity", o.Quantity)
	}
	if o.Price != "" {
		form.Add("price", o.Price)
	}
	if o.TimeInForce != "" {
		form.Add("timeInForce", string(o.TimeInForce))
	}
	if o.ReduceOnly != nil {
		form.AddBool("reduceOnly", *o.ReduceOnly)
	}
	if o.StopPrice != "" {
		form.Add("stopPrice", o.StopPrice)
	}
	if o.ClientOrderID != "" {
		form.Add("newClientOrderId", o.ClientOrderID)
	}
	if o.ClosePosition != nil {
		form.AddBool("closePosition", *o.ClosePosition)
	}
	return form
}

// CancelOrder identifies an order to cancel, by exchange order id or by the
// caller's client order id.
type CancelOrder struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
}

// CancelByOrderID cancels by the exchange-assigned order id.
func CancelByOrderID(symbol string, orderID int64) *CancelOrder {
	return &CancelOrder{Symbol: symbol, OrderID: orderID}
}

// CancelByClientOrderID cancels by the caller-chosen order id.
func CancelByClientOrderID(symbol, clientOrderID string) *CancelOrder {
	return &CancelOrder{Symbol: symbol, ClientOrderID: clientOrderID}
}

// Form serializes the cancel request.
func (c *CancelOrder) Form() *core.Form {
	form := core.NewForm().Add("symbol", c.Symbol)
	if c.OrderID != 0 {
		form.Add("orderId", strconv.FormatInt(c.OrderID, 10))
	}
	if c.ClientOrderID != "" {
		form.Add("origClientOrderId", c.ClientOrderID)
	}
	return form
}
