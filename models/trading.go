package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderSide is the direction of an order, wire-encoded as the uppercase
// literals BUY and SELL.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType selects how an order executes.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// TimeInForce controls how long an unfilled order stays active.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

// OrderStatus is the lifecycle state reported by the exchange.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "NEW"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

// StringFloat is a float64 that travels as a decimal string on the wire.
// The exchange encodes balances this way ("1.50000000"); converting on
// ingress is acceptable for balances because they are display values, not
// order prices.
type StringFloat float64

func (f *StringFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected decimal string: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal string %q: %w", s, err)
	}
	*f = StringFloat(v)
	return nil
}

func (f StringFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(f), 'f', 8, 64))
}

// Balance is one asset's free and locked quantity in the account.
type Balance struct {
	Asset  string      `json:"asset"`
	Free   StringFloat `json:"free"`
	Locked StringFloat `json:"locked"`
}

// AccountInfo is the signed account endpoint response.
type AccountInfo struct {
	Balances    []Balance `json:"balances"`
	CanTrade    bool      `json:"canTrade"`
	CanWithdraw bool      `json:"canWithdraw"`
	CanDeposit  bool      `json:"canDeposit"`
}

// OrderResponse describes an order as returned by the order endpoints.
// Price and quantity fields stay as the exchange's decimal strings;
// parsing them to floating point loses precision and is left to display
// code that accepts that loss.
type OrderResponse struct {
	Symbol              string      `json:"symbol"`
	OrderID             int64       `json:"orderId"`
	OrderListID         int64       `json:"orderListId"`
	ClientOrderID       string      `json:"clientOrderId"`
	Price               string      `json:"price"`
	OrigQty             string      `json:"origQty"`
	ExecutedQty         string      `json:"executedQty"`
	CummulativeQuoteQty string      `json:"cummulativeQuoteQty"`
	Status              OrderStatus `json:"status"`
	TimeInForce         string      `json:"timeInForce"`
	Type                string      `json:"type"`
	Side                string      `json:"side"`

	// TransactTime is set on freshly placed or cancelled orders; Time is
	// set on orders returned by the listing endpoint. Consumers use
	// TransactionTime to get whichever is present.
	TransactTime int64 `json:"transactTime,omitempty"`
	Time         int64 `json:"time,omitempty"`
}

// TransactionTime returns the order's millisecond timestamp, preferring
// transactTime and falling back to time. The second result is false when
// neither field was present.
func (o *OrderResponse) TransactionTime() (int64, bool) {
	if o.TransactTime != 0 {
		return o.TransactTime, true
	}
	if o.Time != 0 {
		return o.Time, true
	}
	return 0, false
}
