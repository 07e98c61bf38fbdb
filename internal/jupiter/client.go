// Package jupiter talks to the Jupiter aggregator: quotes, swap transaction
// building and the limit order API.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
)

const (
	SwapModeExactIn  = constants.SwapModeExactIn
	SwapModeExactOut = constants.SwapModeExactOut

	defaultTimeout = 12 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client is safe for concurrent use.
type Client struct {
	endpoints Endpoints
	apiKey    string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *logrus.Logger
}

// ClientConfig holds configuration for the aggregator client.
type ClientConfig struct {
	// Endpoints defaults to DefaultEndpoints when nil.
	Endpoints *Endpoints
	APIKey    string
	Timeout   time.Duration

	// RateLimit is requests per second across all operations; 0 disables limiting.
	RateLimit float64
	RateBurst int

	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// NewClient creates an aggregator client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	endpoints := DefaultEndpoints()
	if cfg.Endpoints != nil {
		endpoints = *cfg.Endpoints
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		endpoints: endpoints,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		http:      httpClient,
		limiter:   limiter,
		logger:    cfg.Logger,
	}
}

// Endpoints returns the endpoint table the client was built with.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// Quote fetches the best route for req.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if strings.TrimSpace(req.InputMint) == "" {
		return nil, fmt.Errorf("inputMint is required")
	}
	if strings.TrimSpace(req.OutputMint) == "" {
		return nil, fmt.Errorf("outputMint is required")
	}
	swapMode := req.SwapMode
	if swapMode == "" {
		swapMode = SwapModeExactIn
	}
	if swapMode != SwapModeExactIn && swapMode != SwapModeExactOut {
		return nil, fmt.Errorf("swapMode must be %s or %s", SwapModeExactIn, SwapModeExactOut)
	}
	if swapMode == SwapModeExactIn && req.Amount == 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	q := url.Values{}
	q.Set("inputMint", req.InputMint)
	q.Set("outputMint", req.OutputMint)
	q.Set("amount", strconv.FormatUint(req.Amount, 10))
	q.Set("swapMode", swapMode)
	q.Set("onlyDirectRoutes", strconv.FormatBool(req.OnlyDirectRoutes))
	q.Set("asLegacyTransaction", strconv.FormatBool(req.AsLegacyTransaction))

	if req.SlippageBps != nil {
		q.Set("slippageBps", strconv.FormatUint(uint64(*req.SlippageBps), 10))
	}
	if len(req.Dexes) > 0 {
		q.Set("dexes", strings.Join(req.Dexes, ","))
	}
	if len(req.ExcludeDexes) > 0 {
		q.Set("excludeDexes", strings.Join(req.ExcludeDexes, ","))
	}
	if req.RestrictIntermediateTokens != nil {
		q.Set("restrictIntermediateTokens", strconv.FormatBool(*req.RestrictIntermediateTokens))
	}
	if req.PlatformFeeBps != nil {
		q.Set("platformFeeBps", strconv.FormatUint(uint64(*req.PlatformFeeBps), 10))
	}
	if req.MaxAccounts != nil {
		q.Set("maxAccounts", strconv.FormatUint(*req.MaxAccounts, 10))
	}
	if req.InstructionVersion != "" {
		q.Set("instructionVersion", req.InstructionVersion)
	}
	if req.DynamicSlippage != nil {
		q.Set("dynamicSlippage", strconv.FormatBool(*req.DynamicSlippage))
	}

	var out QuoteResponse
	body, err := c.get(ctx, OpQuote, q, &out)
	if err != nil {
		var decodeErr *decodeError
		if !errors.As(err, &decodeErr) {
			return nil, err
		}
		// a 2xx body that does not fit the quote shape is a failed quote
		if aggErr := parseAggregatorError(OpQuote, http.StatusOK, body); aggErr != nil {
			return nil, aggErr
		}
		return nil, &AggregatorError{Operation: OpQuote, StatusCode: http.StatusOK, Message: decodeErr.Error()}
	}
	if len(out.RoutePlan) == 0 {
		if aggErr := parseAggregatorError(OpQuote, http.StatusOK, body); aggErr != nil {
			return nil, aggErr
		}
		return nil, &AggregatorError{Operation: OpQuote, StatusCode: http.StatusOK, Message: "no route found"}
	}

	c.logger.WithFields(logrus.Fields{
		"input_mint":  out.InputMint,
		"output_mint": out.OutputMint,
		"in_amount":   out.InAmount,
		"out_amount":  out.OutAmount,
		"hops":        len(out.RoutePlan),
	}).Debug("jupiter quote")

	return &out, nil
}

// SwapTransaction asks the aggregator to build the unsigned swap for a quote.
func (c *Client) SwapTransaction(ctx context.Context, req SwapTransactionRequest) (*SwapTransactionResponse, error) {
	if req.Quote == nil {
		return nil, fmt.Errorf("quote is required")
	}
	if strings.TrimSpace(req.UserPublicKey) == "" {
		return nil, fmt.Errorf("userPublicKey is required")
	}

	var out SwapTransactionResponse
	body, err := c.post(ctx, OpSwap, req, &out)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.SwapTransaction) == "" {
		return nil, &SwapBuildError{Operation: OpSwap, Body: body}
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, op Operation, q url.Values, out any) ([]byte, error) {
	u := c.endpoints.URL(op)
	if u == "" {
		return nil, fmt.Errorf("no endpoint configured for %s", op)
	}
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, op, out)
}

func (c *Client) post(ctx context.Context, op Operation, in any, out any) ([]byte, error) {
	u := c.endpoints.URL(op)
	if u == "" {
		return nil, fmt.Errorf("no endpoint configured for %s", op)
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op Operation, out any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read jupiter %s response: %w", op, err)
	}

	c.logger.WithFields(logrus.Fields{
		"op":       op,
		"status":   res.StatusCode,
		"duration": time.Since(start),
	}).Debug("jupiter call")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if aggErr := parseAggregatorError(op, res.StatusCode, body); aggErr != nil {
			return body, aggErr
		}
		return body, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return body, &decodeError{op: op, err: err}
	}
	return body, nil
}

// decodeError is a 2xx body that did not decode into the expected type.
type decodeError struct {
	op  Operation
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to decode jupiter %s response: %v", e.op, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }
