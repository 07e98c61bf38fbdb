package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/ledger"
	"github.com/aman-zulfiqar/jupiter-solana/internal/swapengine"
	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
)

// NotFoundJSON returns a custom HTTP error handler that returns JSON responses
// This ensures all errors (including 404s) have consistent JSON format
func NotFoundJSON() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// Don't send response if already committed
		if c.Response().Committed {
			return
		}

		// Handle Echo HTTP errors (like 404, 400, 401, 429)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, ErrorResponse{
				Error: http.StatusText(he.Code),
				Code:  he.Code,
			})
			return
		}

		// Handle all other errors as internal server error
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		})
	}
}

// classifyError maps an engine error onto a status code and a short message
// Upstream failures (aggregator, node) are 502; a route the aggregator
// cannot serve or a transaction the node refuses on its merits is 422
func classifyError(err error) (int, string) {
	var (
		aggErr   *jupiter.AggregatorError
		httpErr  *jupiter.HTTPError
		buildErr *jupiter.SwapBuildError
		badTx    *txcodec.MalformedTransactionError
		slotErr  *txcodec.SignatureSlotMismatchError
		subErr   *ledger.SubmissionError
	)

	switch {
	case errors.Is(err, swapengine.ErrNoSigner):
		return http.StatusServiceUnavailable, "execution is disabled: no wallet configured"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream timed out"
	case errors.As(err, &aggErr):
		if aggErr.StatusCode >= 500 {
			return http.StatusBadGateway, "jupiter " + string(aggErr.Operation) + " failed"
		}
		return http.StatusUnprocessableEntity, "jupiter rejected " + string(aggErr.Operation)
	case errors.As(err, &httpErr), errors.As(err, &buildErr):
		return http.StatusBadGateway, "jupiter request failed"
	case errors.As(err, &badTx), errors.As(err, &slotErr):
		return http.StatusBadGateway, "jupiter returned an unusable transaction"
	case errors.As(err, &subErr):
		if subErr.Kind == ledger.KindTransport {
			return http.StatusBadGateway, "rpc node unreachable"
		}
		return http.StatusUnprocessableEntity, "transaction rejected: " + string(subErr.Kind)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail writes the classified error; details carry the error text in dev mode
func (h *Handlers) fail(c echo.Context, err error) error {
	code, msg := classifyError(err)
	h.Logger.WithError(err).WithField("path", c.Path()).Warn("request failed")

	details := map[string]any{"err": err.Error()}
	var subErr *ledger.SubmissionError
	if errors.As(err, &subErr) && len(subErr.Logs) > 0 {
		details["logs"] = subErr.Logs
	}
	return h.err(c, code, msg, details)
}
