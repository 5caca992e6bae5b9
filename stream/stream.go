// Package stream exposes a pull interface over the background ticker
// ingest: callers ask for the next market data event instead of dealing
// with the websocket lifecycle themselves.
package stream

import (
	"context"
	"sync"

	appconfig "tradeflow/config"
	"tradeflow/internal/channel"
	"tradeflow/logger"
	"tradeflow/models"
	"tradeflow/reader/binance"
)

// MarketStream owns a background TickerReader and delivers its events in
// decode order. When the reader's loop ends, for any reason, the event
// channel is closed and NextEvent reports exhaustion after the remaining
// buffered events drain.
type MarketStream struct {
	channels *channel.Channels
	reader   *binance.TickerReader
	cancel   context.CancelFunc
	log      *logger.Log

	closeOnce sync.Once
}

// New starts the ingest for the given symbols and returns the consuming
// handle. The background reader is owned by the handle: Close cancels and
// joins it, never leaking the connection.
func New(cfg *appconfig.Config, symbols []string) (*MarketStream, error) {
	log := logger.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	channels := channel.NewChannels(cfg.Stream.EventBuffer)
	reader := binance.NewTickerReader(cfg, channels, symbols)

	if err := reader.Start(ctx); err != nil {
		cancel()
		channels.Close()
		return nil, err
	}

	// Close the queue once the producer is done so consumers observe
	// end-of-stream instead of blocking forever.
	go func() {
		reader.Wait()
		channels.Close()
	}()

	log.WithComponent("market_stream").WithFields(logger.Fields{
		"symbols": symbols,
	}).Info("market data stream started")

	return &MarketStream{
		channels: channels,
		reader:   reader,
		cancel:   cancel,
		log:      log,
	}, nil
}

// NextEvent blocks until an event is available and returns it. The second
// result is false once the producing task has ended and all buffered
// events were consumed, or when ctx is done first.
func (s *MarketStream) NextEvent(ctx context.Context) (models.MarketDataEvent, bool) {
	select {
	case ev, ok := <-s.channels.Events:
		if !ok {
			return nil, false
		}
		return ev, true
	case <-ctx.Done():
		return nil, false
	}
}

// Stats reports how many events the ingest side sent and dropped.
func (s *MarketStream) Stats() channel.ChannelStats {
	return s.channels.GetStats()
}

// Close cancels the background reader and waits for it to finish. Safe to
// call more than once.
func (s *MarketStream) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.reader.Stop()
		s.channels.Close()
		s.log.WithComponent("market_stream").Info("market data stream closed")
	})
}
