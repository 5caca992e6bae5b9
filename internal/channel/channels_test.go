package channel

import (
	"context"
	"testing"

	"tradeflow/models"
)

func TestChannelsStats(t *testing.T) {
	ch := NewChannels(2)
	ch.IncrementEventsSent()
	ch.IncrementEventsDropped()
	stats := ch.GetStats()
	if stats.EventsSent != 1 || stats.EventsDropped != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSendEventDropsWhenFull(t *testing.T) {
	ch := NewChannels(1)
	ctx := context.Background()

	if !ch.SendEvent(ctx, models.TickerEvent{}) {
		t.Fatal("first send should succeed")
	}
	if ch.SendEvent(ctx, models.TickerEvent{}) {
		t.Fatal("second send should drop on a full buffer")
	}

	stats := ch.GetStats()
	if stats.EventsSent != 1 || stats.EventsDropped != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSendEventCancelledContext(t *testing.T) {
	ch := NewChannels(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if ch.SendEvent(ctx, models.TickerEvent{}) {
		t.Fatal("send should fail after context cancellation")
	}
}

func TestSendEventPreservesOrder(t *testing.T) {
	ch := NewChannels(8)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ev := models.TickerEvent{Ticker: models.Ticker{Timestamp: int64(i)}}
		if !ch.SendEvent(ctx, ev) {
			t.Fatalf("send %d failed", i)
		}
	}
	ch.Close()

	var i int64
	for ev := range ch.Events {
		ticker, ok := ev.(models.TickerEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		if ticker.Ticker.Timestamp != i {
			t.Fatalf("event %d out of order: got %d", i, ticker.Ticker.Timestamp)
		}
		i++
	}
	if i != 5 {
		t.Fatalf("expected 5 events, got %d", i)
	}
}

func TestCloseIdempotent(t *testing.T) {
	ch := NewChannels(1)
	ch.Close()
	ch.Close()
}
