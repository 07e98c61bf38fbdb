package jupiter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CreateOrder returns the unsigned transaction opening a limit order and the
// order account key.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if req.Owner == "" || req.Base == "" {
		return nil, fmt.Errorf("owner and base are required")
	}
	if req.InputMint == "" || req.OutputMint == "" {
		return nil, fmt.Errorf("inputMint and outputMint are required")
	}
	if req.InAmount == 0 || req.OutAmount == 0 {
		return nil, fmt.Errorf("inAmount and outAmount must be greater than zero")
	}
	out, err := c.orderTx(ctx, OpOpenOrder, req)
	if err != nil {
		return nil, err
	}
	order := out.OrderPubkey
	if order == "" {
		order = out.Order
	}
	return &CreateOrderResponse{Tx: out.Tx, Order: order}, nil
}

// CancelOrders returns the unsigned transaction cancelling orders.
func (c *Client) CancelOrders(ctx context.Context, req CancelOrdersRequest) (string, error) {
	if req.Owner == "" {
		return "", fmt.Errorf("owner is required")
	}
	if req.FeePayer == "" {
		req.FeePayer = req.Owner
	}
	out, err := c.orderTx(ctx, OpCancelOrders, req)
	if err != nil {
		return "", err
	}
	return out.Tx, nil
}

func (c *Client) orderTx(ctx context.Context, op Operation, req any) (*orderTxResponse, error) {
	var out orderTxResponse
	body, err := c.post(ctx, op, req, &out)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Tx) == "" {
		if aggErr := parseAggregatorError(op, http.StatusOK, body); aggErr != nil {
			return nil, aggErr
		}
		return nil, &SwapBuildError{Operation: op, Body: body}
	}
	return &out, nil
}

// OpenOrders lists the open limit orders of wallet, optionally filtered by
// mint. No key is needed.
func (c *Client) OpenOrders(ctx context.Context, wallet, inputMint, outputMint string) ([]Order, error) {
	if strings.TrimSpace(wallet) == "" {
		return nil, fmt.Errorf("wallet is required")
	}
	q := url.Values{}
	q.Set("wallet", wallet)
	if inputMint != "" {
		q.Set("inputMint", inputMint)
	}
	if outputMint != "" {
		q.Set("outputMint", outputMint)
	}

	var out []Order
	if _, err := c.get(ctx, OpQueryOpenOrders, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderHistory lists closed orders of a wallet.
func (c *Client) OrderHistory(ctx context.Context, req HistoryRequest) ([]HistoryOrder, error) {
	q, err := req.values()
	if err != nil {
		return nil, err
	}
	var out []HistoryOrder
	if _, err := c.get(ctx, OpQueryOrderHistory, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradeHistory lists fills against orders of a wallet.
func (c *Client) TradeHistory(ctx context.Context, req HistoryRequest) ([]Trade, error) {
	q, err := req.values()
	if err != nil {
		return nil, err
	}
	var out []Trade
	if _, err := c.get(ctx, OpQueryTradeHistory, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r HistoryRequest) values() (url.Values, error) {
	if strings.TrimSpace(r.Wallet) == "" {
		return nil, fmt.Errorf("wallet is required")
	}
	q := url.Values{}
	q.Set("wallet", r.Wallet)
	if r.InputMint != "" {
		q.Set("inputMint", r.InputMint)
	}
	if r.OutputMint != "" {
		q.Set("outputMint", r.OutputMint)
	}
	if r.Cursor != nil {
		q.Set("cursor", strconv.FormatInt(*r.Cursor, 10))
	}
	if r.Take != nil {
		if *r.Take <= 0 {
			return nil, fmt.Errorf("take must be positive")
		}
		q.Set("take", strconv.Itoa(*r.Take))
	}
	return q, nil
}
