package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/flags"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
	"github.com/aman-zulfiqar/jupiter-solana/internal/swapengine"
	"github.com/aman-zulfiqar/jupiter-solana/internal/tokens"
)

// Engine is the swap engine surface the API exposes
type Engine interface {
	CanSign() bool
	Wallet() solana.PublicKey
	Quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error)
	ExecuteSwapWithMeta(ctx context.Context, req swapengine.SwapRequest) (*swapengine.SwapExecution, error)
	OpenLimitOrder(ctx context.Context, req swapengine.LimitOrderRequest) (*swapengine.LimitOrderResult, error)
	CancelLimitOrders(ctx context.Context, orders []solana.PublicKey) (solana.Signature, error)
	OpenOrders(ctx context.Context, wallet, inputMint, outputMint string) ([]jupiter.Order, error)
	OrderHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.HistoryOrder, error)
	TradeHistory(ctx context.Context, req jupiter.HistoryRequest) ([]jupiter.Trade, error)
	RecentExecutions(ctx context.Context, limit int64) ([]*models.Execution, error)
}

// SwitchStore holds the execution kill switches
type SwitchStore interface {
	Enabled(ctx context.Context, op string) (bool, string, error)
	Get(ctx context.Context, op string) (*flags.Switch, error)
	Set(ctx context.Context, op string, enabled bool, reason string) (*flags.Switch, error)
	List(ctx context.Context) ([]*flags.Switch, error)
	Delete(ctx context.Context, op string) error
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Engine   Engine         // Quotes, execution and order queries
	Switches SwitchStore    // Redis-backed execution switches (optional)
	Journal  bool           // Whether the engine records executions
	DevMode  bool           // Enable detailed error responses in development
	Logger   *logrus.Logger // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// bindAndValidate decodes the JSON body into req and runs its validate tags
// ok is false when a response was already written
func (h *Handlers) bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := c.Validate(req); err != nil {
		// field names and rules are returned outside dev mode too
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Code:    http.StatusBadRequest,
			Details: validationDetails(err),
		})
	}
	return true, nil
}

// Health reports liveness and which optional features are wired
func (h *Handlers) Health(c echo.Context) error {
	resp := HealthResponse{
		OK:        true,
		CanSign:   h.Engine.CanSign(),
		Journal:   h.Journal,
		Switches:  h.Switches != nil,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if resp.CanSign {
		resp.Wallet = h.Engine.Wallet().String()
	}
	return c.JSON(http.StatusOK, resp)
}

// Swap quotes, builds, signs and submits a swap
// Returns the transaction hash together with the quote it was built from
func (h *Handlers) Swap(c echo.Context) error {
	var req SwapRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	in, err := tokens.Resolve(req.InputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": err.Error()})
	}
	out, err := tokens.Resolve(req.OutputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": err.Error()})
	}
	amount, err := strconv.ParseUint(req.Amount, 10, 64)
	if err != nil || amount == 0 {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be a positive uint64"})
	}

	sreq := swapengine.SwapRequest{
		InputMint:                 in.Mint.String(),
		OutputMint:                out.Mint.String(),
		Amount:                    amount,
		SlippageBps:               req.SlippageBps,
		SwapMode:                  req.SwapMode,
		OnlyDirectRoutes:          req.OnlyDirectRoutes,
		AsLegacyTransaction:       req.AsLegacyTransaction,
		ExcludeDexes:              req.ExcludeDexes,
		MaxAccounts:               req.MaxAccounts,
		WrapAndUnwrapSol:          req.WrapAndUnwrapSol,
		PrioritizationFeeLamports: req.PrioritizationFeeLamports,
	}
	if req.FeeAccount != "" {
		fee := solana.MustPublicKeyFromBase58(req.FeeAccount) // validated by the pubkey tag
		sreq.FeeAccount = &fee
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	exec, err := h.Engine.ExecuteSwapWithMeta(ctx, sreq)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, exec)
}

// OpenLimitOrder creates a limit order signed by the wallet and a fresh base key
func (h *Handlers) OpenLimitOrder(c echo.Context) error {
	var req LimitOrderRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	in, err := tokens.Resolve(req.InputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": err.Error()})
	}
	out, err := tokens.Resolve(req.OutputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": err.Error()})
	}
	inAmount, err := strconv.ParseUint(req.InAmount, 10, 64)
	if err != nil || inAmount == 0 {
		return h.err(c, http.StatusBadRequest, "invalid inAmount", map[string]any{"inAmount": "must be a positive uint64"})
	}
	outAmount, err := strconv.ParseUint(req.OutAmount, 10, 64)
	if err != nil || outAmount == 0 {
		return h.err(c, http.StatusBadRequest, "invalid outAmount", map[string]any{"outAmount": "must be a positive uint64"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	res, err := h.Engine.OpenLimitOrder(ctx, swapengine.LimitOrderRequest{
		InputMint:  in.Mint.String(),
		OutputMint: out.Mint.String(),
		InAmount:   inAmount,
		OutAmount:  outAmount,
		ExpiredAt:  req.ExpiredAt,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CancelLimitOrders cancels the listed orders, or all of them for an empty list
func (h *Handlers) CancelLimitOrders(c echo.Context) error {
	var req CancelOrdersRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	orders := make([]solana.PublicKey, 0, len(req.Orders))
	for _, o := range req.Orders {
		orders = append(orders, solana.MustPublicKeyFromBase58(o))
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	sig, err := h.Engine.CancelLimitOrders(ctx, orders)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, CancelOrdersResponse{TransactionHash: sig.String(), Orders: len(orders)})
}

// OpenOrders lists open limit orders
// wallet defaults to the engine wallet; inputMint and outputMint filter
func (h *Handlers) OpenOrders(c echo.Context) error {
	wallet, ok, err := h.walletParam(c)
	if !ok {
		return err
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.Engine.OpenOrders(ctx, wallet,
		strings.TrimSpace(c.QueryParam("inputMint")),
		strings.TrimSpace(c.QueryParam("outputMint")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// OrderHistory pages through closed orders
func (h *Handlers) OrderHistory(c echo.Context) error {
	req, ok, err := h.historyParams(c)
	if !ok {
		return err
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.Engine.OrderHistory(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// TradeHistory pages through fills of the wallet's orders
func (h *Handlers) TradeHistory(c echo.Context) error {
	req, ok, err := h.historyParams(c)
	if !ok {
		return err
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.Engine.TradeHistory(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// RecentExecutions returns the latest journaled executions with optional limit parameter
// Accepts limit query parameter (default: 20, range: 1-100)
func (h *Handlers) RecentExecutions(c echo.Context) error {
	if !h.Journal {
		return h.err(c, http.StatusNotFound, "execution journal is not configured", nil)
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > constants.MaxRecentExecutions {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Engine.RecentExecutions(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get executions", nil)
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// walletParam reads ?wallet=, falling back to the engine wallet
// ok is false when a response was already written
func (h *Handlers) walletParam(c echo.Context) (string, bool, error) {
	wallet := strings.TrimSpace(c.QueryParam("wallet"))
	if wallet == "" {
		if !h.Engine.CanSign() {
			return "", false, h.err(c, http.StatusBadRequest, "invalid wallet", map[string]any{"wallet": "required"})
		}
		return h.Engine.Wallet().String(), true, nil
	}
	if _, err := solana.PublicKeyFromBase58(wallet); err != nil {
		return "", false, h.err(c, http.StatusBadRequest, "invalid wallet", map[string]any{"wallet": "must be a base58 public key"})
	}
	return wallet, true, nil
}

func (h *Handlers) historyParams(c echo.Context) (jupiter.HistoryRequest, bool, error) {
	wallet, ok, err := h.walletParam(c)
	if !ok {
		return jupiter.HistoryRequest{}, false, err
	}

	req := jupiter.HistoryRequest{
		Wallet:     wallet,
		InputMint:  strings.TrimSpace(c.QueryParam("inputMint")),
		OutputMint: strings.TrimSpace(c.QueryParam("outputMint")),
	}
	if v := strings.TrimSpace(c.QueryParam("cursor")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, false, h.err(c, http.StatusBadRequest, "invalid cursor", map[string]any{"cursor": "must be an integer"})
		}
		req.Cursor = &n
	}
	if v := strings.TrimSpace(c.QueryParam("take")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return req, false, h.err(c, http.StatusBadRequest, "invalid take", map[string]any{"take": "min 1 max 500"})
		}
		req.Take = &n
	}
	return req, true, nil
}
