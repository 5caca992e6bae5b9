// cmd/trader demonstrates the signed trading surface against the Binance
// spot testnet: account info, current price, a limit order placed below
// market, the open order listing and cancellation. Paper money only.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tradeflow/config"
	"tradeflow/logger"
	"tradeflow/models"
	"tradeflow/trading"
)

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	symbol := flag.String("symbol", "BTCUSDT", "Trading symbol")
	quantity := flag.Float64("quantity", 0.001, "Order quantity")
	cancelAfter := flag.Bool("cancel", true, "Cancel the demo order after placing it")
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

	creds, err := config.CredentialsFromEnv()
	if err != nil {
		log.WithError(err).Error("missing testnet credentials")
		os.Exit(1)
	}

	client := trading.NewClient(cfg, creds)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	account, err := client.GetAccountInfo(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get account info")
		os.Exit(1)
	}
	for _, b := range account.Balances {
		if b.Free > 0 || b.Locked > 0 {
			log.WithComponent("trader").WithFields(logger.Fields{
				"asset":  b.Asset,
				"free":   float64(b.Free),
				"locked": float64(b.Locked),
			}).Info("balance")
		}
	}

	price, err := client.GetCurrentPrice(ctx, *symbol)
	if err != nil {
		log.WithError(err).Error("failed to get current price")
		os.Exit(1)
	}
	log.WithComponent("trader").WithFields(logger.Fields{
		"symbol": *symbol,
		"price":  price,
	}).Info("current price")

	// Place the order well below market so it rests instead of filling.
	limitPrice := price * 0.9
	order, err := client.PlaceLimitOrder(ctx, *symbol, models.OrderSideBuy, *quantity, limitPrice)
	if err != nil {
		log.WithError(err).Error("failed to place limit order")
		os.Exit(1)
	}
	log.WithComponent("trader").WithFields(logger.Fields{
		"order_id": order.OrderID,
		"status":   order.Status,
		"price":    order.Price,
		"quantity": order.OrigQty,
	}).Info("limit order placed")

	open, err := client.GetOpenOrders(ctx, *symbol)
	if err != nil {
		log.WithError(err).Error("failed to list open orders")
		os.Exit(1)
	}
	for _, o := range open {
		fields := logger.Fields{
			"order_id": o.OrderID,
			"side":     o.Side,
			"status":   o.Status,
			"price":    o.Price,
		}
		if ts, ok := o.TransactionTime(); ok {
			fields["time"] = time.UnixMilli(ts).UTC().Format(time.RFC3339)
		}
		log.WithComponent("trader").WithFields(fields).Info("open order")
	}

	if *cancelAfter {
		canceled, err := client.CancelOrder(ctx, *symbol, order.OrderID)
		if err != nil {
			log.WithError(err).Error("failed to cancel order")
			os.Exit(1)
		}
		log.WithComponent("trader").WithFields(logger.Fields{
			"order_id": canceled.OrderID,
			"status":   canceled.Status,
		}).Info("order canceled")
	}
}
