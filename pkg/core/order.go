package core

// Side is the order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType is the exchange order type.
type OrderType string

const (
	OrderTypeMarket             OrderType = "MARKET"
	OrderTypeLimit              OrderType = "LIMIT"
	OrderTypeStop               OrderType = "STOP"
	OrderTypeStopMarket         OrderType = "STOP_MARKET"
	OrderTypeTakeProfit         OrderType = "TAKE_PROFIT"
	OrderTypeTakeProfitMarket   OrderType = "TAKE_PROFIT_MARKET"
	OrderTypeTrailingStopMarket OrderType = "TRAILING_STOP_MARKET"
)

// TimeInForce controls how long an order stays active.
type TimeInForce string

const (
	// TimeInForceGTC keeps the order until canceled.
	TimeInForceGTC TimeInForce = "GTC"
	// TimeInForceIOC fills what it can immediately and cancels the rest.
	TimeInForceIOC TimeInForce = "IOC"
	// TimeInForceFOK fills completely or cancels.
	TimeInForceFOK TimeInForce = "FOK"
	// TimeInForceGTX posts only: the order is rejected if it would cross.
	TimeInForceGTX TimeInForce = "GTX"
)

// PositionSide is the futures position side an order acts on.
type PositionSide string

const (
	PositionSideBoth  PositionSide = "BOTH"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)
