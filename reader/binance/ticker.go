package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	appconfig "tradeflow/config"
	"tradeflow/internal/channel"
	"tradeflow/logger"
	"tradeflow/models"

	"github.com/gorilla/websocket"
)

// TickerReader streams 24h ticker updates for a fixed set of symbols from
// the Binance public websocket and forwards decoded events to the
// configured channel. The implementation uses a plain websocket connection
// without relying on an SDK.
//
// The reader does not reconnect: a peer close or transport error ends the
// read loop for good and a new reader must be constructed to resume. The
// last event before a transport-level termination is an ErrorEvent so the
// consumer can tell the stream died rather than went quiet.
type TickerReader struct {
	config   *appconfig.Config
	channels *channel.Channels
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log
	symbols  []string
}

// NewTickerReader creates a new ticker reader for the supplied symbols.
func NewTickerReader(cfg *appconfig.Config, ch *channel.Channels, symbols []string) *TickerReader {
	return &TickerReader{
		config:   cfg,
		channels: ch,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
		symbols:  symbols,
	}
}

// Start establishes the websocket connection and begins the read loop on
// a background goroutine. It returns once the loop is scheduled.
func (r *TickerReader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("ticker reader already running")
	}
	if len(r.symbols) == 0 {
		r.mu.Unlock()
		return fmt.Errorf("no symbols configured for ticker reader")
	}
	r.running = true
	r.ctx = ctx
	r.mu.Unlock()

	log := r.log.WithComponent("binance_ticker_reader").WithFields(logger.Fields{"operation": "Start"})
	log.WithFields(logger.Fields{"symbols": r.symbols}).Info("starting ticker reader")

	r.wg.Add(1)
	go r.stream()

	log.Info("ticker reader started successfully")
	return nil
}

// Stop waits for the read loop to finish. Cancel the context passed to
// Start to make it finish.
func (r *TickerReader) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.log.WithComponent("binance_ticker_reader").Info("stopping ticker reader")
	r.wg.Wait()
	r.log.WithComponent("binance_ticker_reader").Info("ticker reader stopped")
}

// Wait blocks until the read loop has ended, by cancellation, peer close
// or transport failure.
func (r *TickerReader) Wait() {
	r.wg.Wait()
}

// streamURL selects the single-stream form for one symbol and the
// combined-stream form otherwise. The two forms deliver different message
// envelopes; handleMessage copes with both.
func streamURL(base string, symbols []string) string {
	if len(symbols) == 1 {
		return fmt.Sprintf("%s/ws/%s@ticker", base, strings.ToLower(symbols[0]))
	}
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, strings.ToLower(s)+"@ticker")
	}
	return fmt.Sprintf("%s/stream?streams=%s", base, strings.Join(streams, "/"))
}

func (r *TickerReader) stream() {
	defer r.wg.Done()

	wsURL := streamURL(r.config.Stream.URL, r.symbols)
	log := r.log.WithComponent("binance_ticker_reader").WithFields(logger.Fields{
		"symbols": r.symbols,
		"worker":  "ticker_stream",
	})

	log.WithField("url", wsURL).Debug("connecting to websocket")
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(r.ctx, wsURL, nil)
	if err != nil {
		log.WithError(err).Warn("failed to connect websocket")
		r.channels.SendEvent(r.ctx, models.ErrorEvent{Message: fmt.Sprintf("websocket connect failed: %v", err)})
		return
	}
	log.Info("websocket connected")

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-r.ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if r.ctx.Err() != nil {
				log.Info("read loop stopped due to context cancellation")
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("websocket closed by peer")
				return
			}
			log.WithError(err).Warn("websocket read error, terminating stream")
			r.channels.SendEvent(r.ctx, models.ErrorEvent{Message: fmt.Sprintf("websocket error: %v", err)})
			return
		}
		r.handleMessage(msg)
	}
}

// combinedEnvelope wraps a payload with its originating channel name on
// multi-stream connections.
type combinedEnvelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// tickerPayload is the 24hrTicker event body. Prices and volumes arrive
// as decimal strings.
type tickerPayload struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
	Volume    string `json:"v"`
}

// handleMessage decodes one text frame, accepting both the combined
// envelope and the single-stream form. Non-ticker frames are ignored; a
// frame that fails to decode becomes an ErrorEvent, never a connection
// teardown.
func (r *TickerReader) handleMessage(msg []byte) {
	log := r.log.WithComponent("binance_ticker_reader")

	var envelope combinedEnvelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		log.WithError(err).Warn("failed to decode websocket frame")
		r.channels.SendEvent(r.ctx, models.ErrorEvent{Message: fmt.Sprintf("frame decode failed: %v", err)})
		return
	}

	payload := msg
	if envelope.Stream != "" {
		if !strings.Contains(envelope.Stream, "@ticker") {
			return
		}
		payload = envelope.Data
	}

	var tick tickerPayload
	if err := json.Unmarshal(payload, &tick); err != nil {
		log.WithError(err).Warn("failed to decode ticker payload")
		r.channels.SendEvent(r.ctx, models.ErrorEvent{Message: fmt.Sprintf("ticker decode failed: %v", err)})
		return
	}
	if envelope.Stream == "" && tick.EventType != "24hrTicker" {
		return
	}

	ticker, err := tick.toTicker()
	if err != nil {
		log.WithError(err).Warn("failed to parse ticker fields")
		r.channels.SendEvent(r.ctx, models.ErrorEvent{Message: fmt.Sprintf("ticker parse failed: %v", err)})
		return
	}

	if r.channels.SendEvent(r.ctx, models.TickerEvent{Ticker: ticker}) {
		log.WithFields(logger.Fields{
			"symbol": ticker.Symbol,
			"price":  ticker.Price,
		}).Debug("ticker event sent")
	} else if r.ctx.Err() == nil {
		log.Warn("event channel full, dropping ticker")
	}
}

// toTicker converts the wire payload. Missing numeric fields default to
// "0" and a missing symbol to "" so one sparse tick does not fail the
// whole message.
func (p *tickerPayload) toTicker() (models.Ticker, error) {
	priceStr := p.LastPrice
	if priceStr == "" {
		priceStr = "0"
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return models.Ticker{}, fmt.Errorf("invalid last price %q: %w", p.LastPrice, err)
	}

	volumeStr := p.Volume
	if volumeStr == "" {
		volumeStr = "0"
	}
	volume, err := strconv.ParseFloat(volumeStr, 64)
	if err != nil {
		return models.Ticker{}, fmt.Errorf("invalid volume %q: %w", p.Volume, err)
	}

	return models.Ticker{
		Symbol:    p.Symbol,
		Price:     price,
		Volume:    volume,
		Timestamp: p.EventTime,
	}, nil
}
