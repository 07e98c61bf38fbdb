package jupiter

import (
	"fmt"
	"net/url"
	"strings"
)

// Operation identifies one aggregator endpoint.
type Operation string

const (
	OpQuote             Operation = "quote"
	OpSwap              Operation = "swap"
	OpOpenOrder         Operation = "open-order"
	OpCancelOrders      Operation = "cancel-orders"
	OpQueryOpenOrders   Operation = "query-open-orders"
	OpQueryOrderHistory Operation = "query-order-history"
	OpQueryTradeHistory Operation = "query-trade-history"
)

// Operations lists every endpoint the client talks to.
var Operations = []Operation{
	OpQuote,
	OpSwap,
	OpOpenOrder,
	OpCancelOrders,
	OpQueryOpenOrders,
	OpQueryOrderHistory,
	OpQueryTradeHistory,
}

var defaultURLs = map[Operation]string{
	OpQuote:             "https://quote-api.jup.ag/v6/quote",
	OpSwap:              "https://quote-api.jup.ag/v6/swap",
	OpOpenOrder:         "https://jup.ag/api/limit/v1/createOrder",
	OpCancelOrders:      "https://jup.ag/api/limit/v1/cancelOrders",
	OpQueryOpenOrders:   "https://jup.ag/api/limit/v1/openOrders",
	OpQueryOrderHistory: "https://jup.ag/api/limit/v1/orderHistory",
	OpQueryTradeHistory: "https://jup.ag/api/limit/v1/tradeHistory",
}

// Endpoints maps operations to URLs. The zero value is not usable; build one
// with DefaultEndpoints or NewEndpoints. Values are never modified after
// construction, so a table can be shared between clients.
type Endpoints struct {
	urls map[Operation]string
}

// DefaultEndpoints returns the public Jupiter endpoints.
func DefaultEndpoints() Endpoints {
	urls := make(map[Operation]string, len(defaultURLs))
	for op, u := range defaultURLs {
		urls[op] = u
	}
	return Endpoints{urls: urls}
}

// NewEndpoints overlays overrides on the defaults. Blank overrides are
// ignored; unknown operations and URLs that are not absolute http(s) URLs
// are rejected.
func NewEndpoints(overrides map[Operation]string) (Endpoints, error) {
	e := DefaultEndpoints()
	for op, raw := range overrides {
		if _, ok := defaultURLs[op]; !ok {
			return Endpoints{}, fmt.Errorf("unknown jupiter operation %q", op)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return Endpoints{}, fmt.Errorf("invalid %s url: %w", op, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Endpoints{}, fmt.Errorf("invalid %s url %q: must be an absolute http(s) url", op, raw)
		}
		e.urls[op] = strings.TrimRight(raw, "?")
	}
	return e, nil
}

// URL returns the endpoint for op, or "" when the table has none.
func (e Endpoints) URL(op Operation) string {
	return e.urls[op]
}

// All returns a copy of the table.
func (e Endpoints) All() map[Operation]string {
	out := make(map[Operation]string, len(e.urls))
	for op, u := range e.urls {
		out[op] = u
	}
	return out
}
