package channel

import (
	"context"
	"sync"

	"tradeflow/logger"
	"tradeflow/models"
)

type ChannelStats struct {
	EventsSent    int64
	EventsDropped int64
}

// Channels carries decoded market data events from the websocket reader
// to the consuming stream handle. Sends are best effort: a slow or absent
// consumer must never stall the network read loop, so a full buffer drops
// the event and counts the drop.
type Channels struct {
	Events chan models.MarketDataEvent

	stats      ChannelStats
	statsMutex sync.RWMutex
	closeOnce  sync.Once
	log        *logger.Log
}

func NewChannels(eventBufferSize int) *Channels {
	log := logger.GetLogger()
	c := &Channels{
		Events: make(chan models.MarketDataEvent, eventBufferSize),
		log:    log,
	}

	log.WithComponent("event_channels").WithFields(logger.Fields{
		"event_buffer_size": eventBufferSize,
	}).Info("event channels initialized")

	return c
}

// Close closes the event channel. Safe to call more than once; the reader
// closes it when its loop ends and the stream handle closes it again on
// teardown.
func (c *Channels) Close() {
	c.closeOnce.Do(func() {
		close(c.Events)
		c.log.WithComponent("event_channels").Info("event channels closed")
	})
}

func (c *Channels) IncrementEventsSent() {
	c.statsMutex.Lock()
	c.stats.EventsSent++
	c.statsMutex.Unlock()
}

func (c *Channels) IncrementEventsDropped() {
	c.statsMutex.Lock()
	c.stats.EventsDropped++
	c.statsMutex.Unlock()
}

// SendEvent forwards an event without blocking. It reports whether the
// event was accepted; a cancelled context or full buffer yields false.
func (c *Channels) SendEvent(ctx context.Context, ev models.MarketDataEvent) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}

	select {
	case c.Events <- ev:
		c.IncrementEventsSent()
		return true
	default:
		c.IncrementEventsDropped()
		return false
	}
}

func (c *Channels) GetStats() ChannelStats {
	c.statsMutex.RLock()
	defer c.statsMutex.RUnlock()
	return c.stats
}
