package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/tokens"
)

func splitCSVQuery(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts := strings.Split(v, ",")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Quote proxies a quote request; mints may be registry symbols
// No wallet is needed
func (h *Handlers) Quote(c echo.Context) error {
	inputMint := strings.TrimSpace(c.QueryParam("inputMint"))
	outputMint := strings.TrimSpace(c.QueryParam("outputMint"))
	amountStr := strings.TrimSpace(c.QueryParam("amount"))

	if inputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "required"})
	}
	if outputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "required"})
	}
	if amountStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "required"})
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
	}

	in, err := tokens.Resolve(inputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": err.Error()})
	}
	out, err := tokens.Resolve(outputMint)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": err.Error()})
	}

	var slippageBps *uint16
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid slippageBps", map[string]any{"slippageBps": "must be uint16"})
		}
		tmp := uint16(n)
		slippageBps = &tmp
	}

	swapMode := strings.TrimSpace(c.QueryParam("swapMode"))
	if swapMode != "" && swapMode != constants.SwapModeExactIn && swapMode != constants.SwapModeExactOut {
		return h.err(c, http.StatusBadRequest, "invalid swapMode", map[string]any{"swapMode": "must be ExactIn or ExactOut"})
	}

	var restrictIntermediateTokens *bool
	if v := strings.TrimSpace(c.QueryParam("restrictIntermediateTokens")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid restrictIntermediateTokens", map[string]any{"restrictIntermediateTokens": "must be boolean"})
		}
		restrictIntermediateTokens = &b
	}

	var onlyDirectRoutes bool
	if v := strings.TrimSpace(c.QueryParam("onlyDirectRoutes")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid onlyDirectRoutes", map[string]any{"onlyDirectRoutes": "must be boolean"})
		}
		onlyDirectRoutes = b
	}

	var asLegacyTransaction bool
	if v := strings.TrimSpace(c.QueryParam("asLegacyTransaction")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid asLegacyTransaction", map[string]any{"asLegacyTransaction": "must be boolean"})
		}
		asLegacyTransaction = b
	}

	var platformFeeBps *uint16
	if v := strings.TrimSpace(c.QueryParam("platformFeeBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid platformFeeBps", map[string]any{"platformFeeBps": "must be uint16"})
		}
		tmp := uint16(n)
		platformFeeBps = &tmp
	}

	var maxAccounts *uint64
	if v := strings.TrimSpace(c.QueryParam("maxAccounts")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid maxAccounts", map[string]any{"maxAccounts": "must be uint64"})
		}
		maxAccounts = &n
	}

	instructionVersion := strings.TrimSpace(c.QueryParam("instructionVersion"))
	if instructionVersion != "" && instructionVersion != "V1" && instructionVersion != "V2" {
		return h.err(c, http.StatusBadRequest, "invalid instructionVersion", map[string]any{"instructionVersion": "must be V1 or V2"})
	}

	var dynamicSlippage *bool
	if v := strings.TrimSpace(c.QueryParam("dynamicSlippage")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid dynamicSlippage", map[string]any{"dynamicSlippage": "must be boolean"})
		}
		dynamicSlippage = &b
	}

	dexes := splitCSVQuery(c.QueryParams()["dexes"])
	excludeDexes := splitCSVQuery(c.QueryParams()["excludeDexes"])

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.Engine.Quote(ctx, jupiter.QuoteRequest{
		InputMint:                  in.Mint.String(),
		OutputMint:                 out.Mint.String(),
		Amount:                     amount,
		SlippageBps:                slippageBps,
		SwapMode:                   swapMode,
		Dexes:                      dexes,
		ExcludeDexes:               excludeDexes,
		RestrictIntermediateTokens: restrictIntermediateTokens,
		OnlyDirectRoutes:           onlyDirectRoutes,
		AsLegacyTransaction:        asLegacyTransaction,
		PlatformFeeBps:             platformFeeBps,
		MaxAccounts:                maxAccounts,
		InstructionVersion:         instructionVersion,
		DynamicSlippage:            dynamicSlippage,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}
