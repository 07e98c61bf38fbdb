package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/flags"
)

// RequireSwitch refuses the request with 503 while op is switched off
// A switch lookup failure also refuses, since execution state is unknown
func (h *Handlers) RequireSwitch(op string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if h.Switches == nil {
				return next(c)
			}

			ctx, cancel := h.withTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			enabled, reason, err := h.Switches.Enabled(ctx, op)
			if err != nil {
				h.Logger.WithError(err).WithField("operation", op).Error("switch lookup failed")
				return h.err(c, http.StatusServiceUnavailable, "execution state unavailable", nil)
			}
			if !enabled {
				// the reason is operator supplied and always returned
				return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
					Error:   op + " is disabled",
					Code:    http.StatusServiceUnavailable,
					Details: map[string]any{"reason": reason},
				})
			}
			return next(c)
		}
	}
}

// SwitchesList returns the effective state of every switchable operation
func (h *Handlers) SwitchesList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stored, err := h.Switches.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list switches", nil)
	}

	byOp := make(map[string]*flags.Switch, len(stored))
	for _, sw := range stored {
		byOp[sw.Operation] = sw
	}

	items := make([]SwitchStateResponse, 0, 3)
	for _, op := range []string{flags.OpSwap, flags.OpOpenOrder, flags.OpCancelOrders} {
		items = append(items, switchState(op, byOp[op]))
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// SwitchesGet returns the effective state of one operation
func (h *Handlers) SwitchesGet(c echo.Context) error {
	op := c.Param("op")
	if err := flags.ValidateOperation(op); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid operation", map[string]any{"op": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	sw, err := h.Switches.Get(ctx, op)
	if err != nil && !errors.Is(err, flags.ErrNotFound) {
		return h.err(c, http.StatusInternalServerError, "failed to get switch", nil)
	}
	return c.JSON(http.StatusOK, switchState(op, sw))
}

// SwitchesUpdate flips an operation on or off with an optional reason
func (h *Handlers) SwitchesUpdate(c echo.Context) error {
	op := c.Param("op")
	if err := flags.ValidateOperation(op); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid operation", map[string]any{"op": err.Error()})
	}
	var req SwitchUpdateRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	sw, err := h.Switches.Set(ctx, op, *req.Enabled, req.Reason)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update switch", nil)
	}
	h.Logger.WithFields(logrus.Fields{
		"operation": op,
		"enabled":   sw.Enabled,
		"reason":    sw.Reason,
	}).Warn("execution switch changed")
	return c.JSON(http.StatusOK, switchState(op, sw))
}

// SwitchesDelete removes a stored switch, which re-enables the operation
// Returns 204 No Content on successful deletion
func (h *Handlers) SwitchesDelete(c echo.Context) error {
	op := c.Param("op")
	if err := flags.ValidateOperation(op); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid operation", map[string]any{"op": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Switches.Delete(ctx, op); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete switch", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

func switchState(op string, sw *flags.Switch) SwitchStateResponse {
	if sw == nil {
		return SwitchStateResponse{Operation: op, Enabled: true}
	}
	updated := sw.UpdatedAt
	return SwitchStateResponse{Operation: op, Enabled: sw.Enabled, Reason: sw.Reason, UpdatedAt: &updated}
}
