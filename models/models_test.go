package models

import (
	"encoding/json"
	"testing"
)

func TestBalanceDeserialization(t *testing.T) {
	raw := `{"asset":"BTC","free":"1.50000000","locked":"0.25000000"}`

	var b Balance
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal balance: %v", err)
	}
	if b.Asset != "BTC" {
		t.Errorf("unexpected asset: %s", b.Asset)
	}
	if b.Free != 1.5 {
		t.Errorf("unexpected free: %v", b.Free)
	}
	if b.Locked != 0.25 {
		t.Errorf("unexpected locked: %v", b.Locked)
	}
}

func TestBalanceInvalidDecimal(t *testing.T) {
	var b Balance
	if err := json.Unmarshal([]byte(`{"asset":"BTC","free":"abc","locked":"0"}`), &b); err == nil {
		t.Fatal("expected error for non-numeric decimal string")
	}
}

func TestOrderSideSerialization(t *testing.T) {
	buy, err := json.Marshal(OrderSideBuy)
	if err != nil {
		t.Fatalf("marshal buy: %v", err)
	}
	if string(buy) != `"BUY"` {
		t.Errorf("unexpected buy literal: %s", buy)
	}

	sell, err := json.Marshal(OrderSideSell)
	if err != nil {
		t.Fatalf("marshal sell: %v", err)
	}
	if string(sell) != `"SELL"` {
		t.Errorf("unexpected sell literal: %s", sell)
	}
}

func TestOrderResponseDecimalStringsPreserved(t *testing.T) {
	raw := `{
		"symbol": "BTCUSDT",
		"orderId": 12345,
		"orderListId": -1,
		"clientOrderId": "abc-123",
		"price": "50000.10000000",
		"origQty": "0.00100000",
		"executedQty": "0.00000000",
		"cummulativeQuoteQty": "0.00000000",
		"status": "NEW",
		"timeInForce": "GTC",
		"type": "LIMIT",
		"side": "BUY",
		"transactTime": 1640995200000
	}`

	var o OrderResponse
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	if o.Price != "50000.10000000" {
		t.Errorf("price not preserved verbatim: %s", o.Price)
	}
	if o.OrigQty != "0.00100000" {
		t.Errorf("origQty not preserved verbatim: %s", o.OrigQty)
	}
	if o.Status != OrderStatusNew {
		t.Errorf("unexpected status: %s", o.Status)
	}
	if o.OrderID != 12345 {
		t.Errorf("unexpected order id: %d", o.OrderID)
	}
}

func TestOrderResponseTransactionTimeFallback(t *testing.T) {
	tests := []struct {
		name         string
		transactTime int64
		time         int64
		want         int64
		wantOK       bool
	}{
		{"transact time present", 1640995200000, 0, 1640995200000, true},
		{"time present", 0, 1640995300000, 1640995300000, true},
		{"both present prefers transact time", 1640995200000, 1640995300000, 1640995200000, true},
		{"neither present", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := OrderResponse{TransactTime: tt.transactTime, Time: tt.time}
			got, ok := o.TransactionTime()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TransactionTime() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMarketDataEventVariants(t *testing.T) {
	events := []MarketDataEvent{
		TickerEvent{Ticker: Ticker{Symbol: "BTCUSDT", Price: 50000, Volume: 1000, Timestamp: 1640995200000}},
		OrderBookEvent{},
		TradeEvent{},
		ErrorEvent{Message: "connection reset"},
	}

	var tickers, errors int
	for _, ev := range events {
		switch e := ev.(type) {
		case TickerEvent:
			tickers++
			if e.Ticker.Symbol != "BTCUSDT" {
				t.Errorf("unexpected ticker symbol: %s", e.Ticker.Symbol)
			}
		case OrderBookEvent, TradeEvent:
			// reserved variants, nothing produced yet
		case ErrorEvent:
			errors++
			if e.Message == "" {
				t.Error("error event without message")
			}
		default:
			t.Fatalf("unknown event variant %T", ev)
		}
	}
	if tickers != 1 || errors != 1 {
		t.Errorf("unexpected variant counts: tickers=%d errors=%d", tickers, errors)
	}
}
