package models

// Ticker is a snapshot of a symbol's latest price and rolling 24h volume.
type Ticker struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// OrderBookLevel is one price level of an order book side.
type OrderBookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBook is a point-in-time view of the book for one symbol.
type OrderBook struct {
	Symbol    string           `json:"symbol"`
	Bids      []OrderBookLevel `json:"bids"`
	Asks      []OrderBookLevel `json:"asks"`
	Timestamp int64            `json:"timestamp"`
}

// TradeSide marks the aggressor side of an executed trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade is one executed trade on a symbol.
type Trade struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Side      TradeSide `json:"side"`
	Timestamp int64     `json:"timestamp"`
}

// MarketDataEvent is the closed set of events a market data stream can
// deliver. The ticker ingest path only produces TickerEvent and
// ErrorEvent today; OrderBookEvent and TradeEvent are reserved so future
// producers can emit them without changing the consumer contract.
type MarketDataEvent interface {
	marketDataEvent()
}

type TickerEvent struct {
	Ticker Ticker
}

type OrderBookEvent struct {
	OrderBook OrderBook
}

type TradeEvent struct {
	Trade Trade
}

// ErrorEvent reports a stream-level problem in-band so a consumer loop
// can keep running over a single channel.
type ErrorEvent struct {
	Message string
}

func (TickerEvent) marketDataEvent()    {}
func (OrderBookEvent) marketDataEvent() {}
func (TradeEvent) marketDataEvent()     {}
func (ErrorEvent) marketDataEvent()     {}
