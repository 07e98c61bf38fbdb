package jupiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEndpoints(t *testing.T) {
	e := DefaultEndpoints()
	assert.Equal(t, "https://quote-api.jup.ag/v6/quote", e.URL(OpQuote))
	assert.Equal(t, "https://quote-api.jup.ag/v6/swap", e.URL(OpSwap))
	assert.Equal(t, "https://jup.ag/api/limit/v1/createOrder", e.URL(OpOpenOrder))
	assert.Equal(t, "https://jup.ag/api/limit/v1/cancelOrders", e.URL(OpCancelOrders))
	assert.Equal(t, "https://jup.ag/api/limit/v1/openOrders", e.URL(OpQueryOpenOrders))
	assert.Equal(t, "https://jup.ag/api/limit/v1/orderHistory", e.URL(OpQueryOrderHistory))
	assert.Equal(t, "https://jup.ag/api/limit/v1/tradeHistory", e.URL(OpQueryTradeHistory))

	for _, op := range Operations {
		assert.NotEmpty(t, e.URL(op), op)
	}
}

func TestNewEndpoints_Overrides(t *testing.T) {
	e, err := NewEndpoints(map[Operation]string{
		OpQuote: "https://example.test/v6/quote?",
		OpSwap:  "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/v6/quote", e.URL(OpQuote))
	assert.Equal(t, DefaultEndpoints().URL(OpSwap), e.URL(OpSwap), "blank override keeps default")
}

func TestNewEndpoints_Rejects(t *testing.T) {
	cases := map[string]map[Operation]string{
		"unknown op":   {Operation("stake"): "https://example.test"},
		"relative":     {OpQuote: "/v6/quote"},
		"bad scheme":   {OpQuote: "ftp://example.test/quote"},
		"unparsable":   {OpSwap: "http://[::1"},
		"missing host": {OpSwap: "https://"},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewEndpoints(overrides)
			assert.Error(t, err)
		})
	}
}

func TestEndpoints_Isolated(t *testing.T) {
	a := DefaultEndpoints()
	b, err := NewEndpoints(map[Operation]string{OpQuote: "https://other.test/quote"})
	require.NoError(t, err)

	all := a.All()
	all[OpQuote] = "https://mutated.test"

	assert.Equal(t, "https://quote-api.jup.ag/v6/quote", a.URL(OpQuote))
	assert.Equal(t, "https://other.test/quote", b.URL(OpQuote))
	assert.Equal(t, "https://quote-api.jup.ag/v6/quote", DefaultEndpoints().URL(OpQuote))
}
