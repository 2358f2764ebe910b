package dexie

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ListPairsRequest fetches the traded pairs.
type ListPairsRequest struct {
	// PairsOnly projects the response to its "pairs" field.
	PairsOnly bool
}

// ListPairs returns every trading pair on dexie.
func (c *Client) ListPairs(ctx context.Context, req ListPairsRequest) (*Response, error) {
	resp, err := c.get(ctx, c.pricesURL+pairsPath)
	if err != nil {
		return nil, err
	}
	return project(resp, req.PairsOnly, "pairs")
}

// GetTickersRequest fetches market tickers.
type GetTickersRequest struct {
	// TickerID narrows the result to one BASE_QUOTE pair. Empty returns all
	// tickers.
	TickerID string
	// TickersOnly projects the response to its "tickers" field.
	TickersOnly bool
}

// GetTickers returns 24h ticker data, for all pairs or a single one.
func (c *Client) GetTickers(ctx context.Context, req GetTickersRequest) (*Response, error) {
	params := Params{}
	if req.TickerID != "" {
		params["ticker_id"] = req.TickerID
	}

	u, err := BuildURL(c.pricesURL+tickersPath, params)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return project(resp, req.TickersOnly, "tickers")
}

// GetOrderBookRequest fetches order book levels for a pair.
type GetOrderBookRequest struct {
	// TickerID names the BASE_QUOTE pair. Required.
	TickerID string
	// Depth bounds the number of levels per side. Zero leaves the server
	// default in effect.
	Depth int
	// OrderBookOnly projects the response to its "orderbook" field.
	OrderBookOnly bool
}

// GetOrderBook returns the current order book for a pair.
func (c *Client) GetOrderBook(ctx context.Context, req GetOrderBookRequest) (*Response, error) {
	if strings.TrimSpace(req.TickerID) == "" {
		return nil, ErrMissingTickerID
	}
	params := Params{"ticker_id": req.TickerID}
	if req.Depth > 0 {
		params["depth"] = req.Depth
	}

	u, err := BuildURL(c.pricesURL+orderBookPath, params)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return project(resp, req.OrderBookOnly, "orderbook")
}

// GetHistoricalTradesRequest fetches completed trades for a pair.
type GetHistoricalTradesRequest struct {
	// TickerID names the BASE_QUOTE pair. Required.
	TickerID string
	// Type keeps only buys or only sells. Empty returns both sides.
	Type TradeType
	// Limit bounds the number of trades returned. Zero leaves the server
	// default in effect.
	Limit int
	// StartTime and EndTime bound the trade window. They are encoded as
	// milliseconds since the Unix epoch; zero values are omitted.
	StartTime time.Time
	EndTime   time.Time
	// TradesOnly projects the response to its "trades" field.
	TradesOnly bool
}

// GetHistoricalTrades returns completed trades for a pair, newest first.
func (c *Client) GetHistoricalTrades(ctx context.Context, req GetHistoricalTradesRequest) (*Response, error) {
	if strings.TrimSpace(req.TickerID) == "" {
		return nil, ErrMissingTickerID
	}
	params := Params{"ticker_id": req.TickerID}
	if req.Type != "" {
		if !req.Type.valid() {
			return nil, fmt.Errorf("dexie: invalid trade type %q", req.Type)
		}
		params["type"] = string(req.Type)
	}
	if req.Limit > 0 {
		params["limit"] = req.Limit
	}
	if !req.StartTime.IsZero() {
		params["start_time"] = req.StartTime.UnixMilli()
	}
	if !req.EndTime.IsZero() {
		params["end_time"] = req.EndTime.UnixMilli()
	}

	u, err := BuildURL(c.pricesURL+historicalTradesPath, params)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return project(resp, req.TradesOnly, "trades")
}
