// Package trading implements the authenticated REST client for the
// Binance spot testnet. Signed calls follow the exchange's scheme: the
// parameter set is canonicalized, HMAC-signed with the secret key and the
// signature appended, while the API key travels in a header.
package trading

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	appconfig "tradeflow/config"
	"tradeflow/logger"
	"tradeflow/models"
	"tradeflow/signer"

	"github.com/google/uuid"
)

const (
	accountPath     = "/api/v3/account"
	orderPath       = "/api/v3/order"
	openOrdersPath  = "/api/v3/openOrders"
	tickerPricePath = "/api/v3/ticker/price"

	apiKeyHeader = "X-MBX-APIKEY"
)

// Client performs signed and public calls against the testnet REST
// surface. Credentials are immutable after construction; the secret never
// leaves the process and never appears in any log field. A Client is safe
// for concurrent use: the only shared state is the pooled HTTP transport.
type Client struct {
	apiKey    string
	secretKey []byte
	baseURL   string
	client    *http.Client
	log       *logger.Log
}

// NewClient builds a trading client from the configured base URL, request
// timeout and connection pool settings.
func NewClient(cfg *appconfig.Config, creds appconfig.Credentials) *Client {
	log := logger.GetLogger()

	transport := &http.Transport{
		MaxIdleConns:        cfg.Trading.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Trading.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Trading.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Trading.ConnectionPool.IdleConnTimeout,
		DisableCompression:  false,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Trading.Timeout,
	}

	baseURL := strings.TrimSuffix(cfg.Trading.BaseURL, "/")

	log.WithComponent("trading_client").WithFields(logger.Fields{
		"base_url":           baseURL,
		"timeout":            cfg.Trading.Timeout,
		"max_idle_conns":     cfg.Trading.ConnectionPool.MaxIdleConns,
		"max_conns_per_host": cfg.Trading.ConnectionPool.MaxConnsPerHost,
	}).Info("trading client initialized")

	return &Client{
		apiKey:    creds.APIKey,
		secretKey: []byte(creds.SecretKey),
		baseURL:   baseURL,
		client:    httpClient,
		log:       log,
	}
}

// formatQuantity renders a quantity with the fixed 8 decimal places the
// exchange expects, so equal numeric input always signs identically.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', 8, 64)
}

// formatPrice renders a price with the fixed 2 decimal places.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// signedPayload adds the millisecond timestamp, canonicalizes the
// parameter set, signs it and appends the signature. The result is the
// exact wire form for either a query string or a form body.
func (c *Client) signedPayload(params map[string]string) string {
	params["timestamp"] = strconv.FormatInt(time.Now().UnixMilli(), 10)
	query := signer.Canonicalize(params)
	return query + "&signature=" + signer.Sign(c.secretKey, query)
}

// signedRequest performs one authenticated call. GET requests carry the
// signed payload as the query string; POST and DELETE carry it as a
// form-encoded body. The raw response body is returned so each operation
// can decode its own shape.
func (c *Client) signedRequest(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	payload := c.signedPayload(params)

	var req *http.Request
	var err error
	switch method {
	case http.MethodGet:
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+payload, nil)
	default:
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithComponent("trading_client").WithFields(logger.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("api request rejected")
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// GetAccountInfo fetches balances and the account capability flags.
func (c *Client) GetAccountInfo(ctx context.Context) (*models.AccountInfo, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, accountPath, map[string]string{})
	if err != nil {
		return nil, err
	}

	var info models.AccountInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"balances":  len(info.Balances),
		"can_trade": info.CanTrade,
	}).Info("account info fetched")
	return &info, nil
}

// PlaceMarketOrder submits a MARKET order for the given quantity.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side models.OrderSide, quantity float64) (*models.OrderResponse, error) {
	params := map[string]string{
		"symbol":           symbol,
		"side":             string(side),
		"type":             string(models.OrderTypeMarket),
		"quantity":         formatQuantity(quantity),
		"newClientOrderId": uuid.NewString(),
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"symbol":   symbol,
		"side":     side,
		"quantity": params["quantity"],
	}).Info("placing market order")

	return c.placeOrder(ctx, params)
}

// PlaceLimitOrder submits a good-till-canceled LIMIT order.
func (c *Client) PlaceLimitOrder(ctx context.Context, symbol string, side models.OrderSide, quantity, price float64) (*models.OrderResponse, error) {
	params := map[string]string{
		"symbol":           symbol,
		"side":             string(side),
		"type":             string(models.OrderTypeLimit),
		"timeInForce":      string(models.TimeInForceGTC),
		"quantity":         formatQuantity(quantity),
		"price":            formatPrice(price),
		"newClientOrderId": uuid.NewString(),
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"symbol":   symbol,
		"side":     side,
		"quantity": params["quantity"],
		"price":    params["price"],
	}).Info("placing limit order")

	return c.placeOrder(ctx, params)
}

func (c *Client) placeOrder(ctx context.Context, params map[string]string) (*models.OrderResponse, error) {
	body, err := c.signedRequest(ctx, http.MethodPost, orderPath, params)
	if err != nil {
		return nil, err
	}

	var order models.OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"order_id": order.OrderID,
		"status":   order.Status,
	}).Info("order placed")
	return &order, nil
}

// GetOpenOrders lists open orders for a symbol; an empty symbol means all
// symbols.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]models.OrderResponse, error) {
	params := map[string]string{}
	if symbol != "" {
		params["symbol"] = symbol
	}

	body, err := c.signedRequest(ctx, http.MethodGet, openOrdersPath, params)
	if err != nil {
		return nil, err
	}

	var orders []models.OrderResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"symbol": symbol,
		"count":  len(orders),
	}).Info("open orders fetched")
	return orders, nil
}

// CancelOrder cancels an open order by exchange order id.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*models.OrderResponse, error) {
	params := map[string]string{
		"symbol":  symbol,
		"orderId": strconv.FormatInt(orderID, 10),
	}

	c.log.WithComponent("trading_client").WithFields(logger.Fields{
		"symbol":   symbol,
		"order_id": orderID,
	}).Info("canceling order")

	body, err := c.signedRequest(ctx, http.MethodDelete, orderPath, params)
	if err != nil {
		return nil, err
	}

	var order models.OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}
	return &order, nil
}

// GetCurrentPrice fetches the latest price from the public, unsigned
// ticker endpoint. This is a display value; order prices stay as decimal
// strings elsewhere.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	url := c.baseURL + tickerPricePath + "?symbol=" + symbol
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &TransportError{Op: "GET " + tickerPricePath, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &TransportError{Op: "GET " + tickerPricePath, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &DecodeError{Body: string(body), Err: err}
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return 0, &DecodeError{Body: string(body), Err: fmt.Errorf("invalid price %q: %w", payload.Price, err)}
	}
	return price, nil
}
