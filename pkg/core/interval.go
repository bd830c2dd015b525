package core

// Interval identifies a kline/candlestick period. Values are the exchange's
// own interval strings; unknown values pass through untouched so new
// intervals do not break callers.
type Interval string

// Intervals accepted by the kline endpoints and streams.
const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
)

// Seconds returns the interval length in seconds, or 0 for an unrecognized
// interval.
func (i Interval) Seconds() int64 {
	switch i {
	case Interval1m:
		return 60
	case Interval3m:
		return 60 * 3
	case Interval5m:
		return 60 * 5
	case Interval15m:
		return 60 * 15
	case Interval1h:
		return 60 * 60
	case Interval4h:
		return 60 * 60 * 4
	default:
		return 0
	}
}

// String returns the exchange interval string.
func (i Interval) String() string {
	return string(i)
}
