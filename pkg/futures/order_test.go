package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mbx/pkg/core"
)

func TestNewOrderForm(t *testing.T) {
	tests := []struct {
		name  string
		order *NewOrder
		want  string
	}{
		{
			name:  "market buy",
			order: NewMarketBuy("btcusdt", "0.001"),
			want:  "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001",
		},
		{
			name:  "market sell",
			order: NewMarketSell("ETHUSDT", "0.5"),
			want:  "symbol=ETHUSDT&side=SELL&type=MARKET&quantity=0.5",
		},
		{
			name:  "limit buy defaults to GTC",
			order: NewLimitBuy("btcusdt", "40000", "0.010"),
			want:  "symbol=BTCUSDT&side=BUY&type=LIMIT&quantity=0.010&price=40000&timeInForce=GTC",
		},
		{
			name:  "limit sell post only",
			order: NewLimitSell("btcusdt", "41000", "0.010").WithPostOnly(),
			want:  "symbol=BTCUSDT&side=SELL&type=LIMIT&quantity=0.010&price=41000&timeInForce=GTX",
		},
		{
			name:  "reduce only with client id",
			order: NewMarketSell("btcusdt", "0.001").WithReduceOnly().WithClientOrderID("my-id-1"),
			want:  "symbol=BTCUSDT&side=SELL&type=MARKET&quantity=0.001&reduceOnly=true&newClientOrderId=my-id-1",
		},
		{
			name: "stop market close position",
			order: func() *NewOrder {
				o := NewOrderRequest("btcusdt", core.SideSell, core.OrderTypeStopMarket)
				o.StopPrice = "39000"
				v := true
				o.ClosePosition = &v
				return o
			}(),
			want: "symbol=BTCUSDT&side=SELL&type=STOP_MARKET&stopPrice=39000&closePosition=true",
		},
		{
			name: "hedge mode position side",
			order: func() *NewOrder {
				o := NewMarketBuy("btcusdt", "0.001")
				o.PositionSide = core.PositionSideLong
				return o
			}(),
			want: "symbol=BTCUSDT&side=BUY&type=MARKET&positionSide=LONG&quantity=0.001",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.Form().Encode())
		})
	}
}

func TestCancelOrderForm(t *testing.T) {
	assert.Equal(t, "symbol=BTCUSDT&orderId=283194212",
		CancelByOrderID("BTCUSDT", 283194212).Form().Encode())
	assert.Equal(t, "symbol=BTCUSDT&origClientOrderId=myOrder1",
		CancelByClientOrderID("BTCUSDT", "myOrder1").Form().Encode())
}
