package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tradeflow/config"
	"tradeflow/logger"
	"tradeflow/models"
	"tradeflow/stream"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Tradeflow.Name,
		"version": cfg.Tradeflow.Version,
	}).Info("starting tradeflow ticker watch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel)

	s, err := stream.New(cfg, cfg.Stream.Symbols)
	if err != nil {
		log.WithError(err).Error("failed to start market data stream")
		os.Exit(1)
	}
	defer s.Close()

	for {
		ev, ok := s.NextEvent(ctx)
		if !ok {
			log.Info("market data stream ended")
			return
		}
		switch e := ev.(type) {
		case models.TickerEvent:
			log.WithComponent("ticker_watch").WithFields(logger.Fields{
				"symbol":    e.Ticker.Symbol,
				"price":     e.Ticker.Price,
				"volume":    e.Ticker.Volume,
				"timestamp": e.Ticker.Timestamp,
			}).Info("ticker update")
		case models.ErrorEvent:
			log.WithComponent("ticker_watch").WithField("error", e.Message).Warn("stream error")
		default:
			// OrderBookEvent and TradeEvent are reserved; nothing emits
			// them yet.
		}
	}
}

func handleShutdown(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	cancel()
}
