package jupiter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tx": "AQID", "orderPubkey": "order1"}`)
	})

	expiry := int64(1735689600)
	res, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Owner:      "owner",
		Base:       "base",
		InputMint:  solMint,
		OutputMint: usdcMint,
		InAmount:   1_000_000,
		OutAmount:  200_000,
		ExpiredAt:  &expiry,
	})
	require.NoError(t, err)
	assert.Equal(t, "AQID", res.Tx)
	assert.Equal(t, "order1", res.Order)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/open-order", (*calls)[0].path)
	assert.JSONEq(t, `{
		"owner": "owner",
		"base": "base",
		"inputMint": "`+solMint+`",
		"outputMint": "`+usdcMint+`",
		"inAmount": 1000000,
		"outAmount": 200000,
		"expiredAt": 1735689600
	}`, string((*calls)[0].body))
}

func TestClient_CreateOrderReportsOrderKey(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "orderPubkey", body: `{"tx": "AQID", "orderPubkey": "order1"}`, want: "order1"},
		{name: "order", body: `{"tx": "AQID", "order": "order2"}`, want: "order2"},
		{name: "missing", body: `{"tx": "AQID"}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			res, err := client.CreateOrder(context.Background(), CreateOrderRequest{
				Owner: "owner", Base: "base", InputMint: solMint, OutputMint: usdcMint, InAmount: 1, OutAmount: 1,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Order)
		})
	}
}

func TestClient_CreateOrderValidation(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tx": "AQID"}`)
	})

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{Owner: "owner", InputMint: solMint, OutputMint: usdcMint, InAmount: 1, OutAmount: 1})
	assert.Error(t, err)
	_, err = client.CreateOrder(context.Background(), CreateOrderRequest{Owner: "owner", Base: "base", InputMint: solMint, OutputMint: usdcMint, OutAmount: 1})
	assert.Error(t, err)
	assert.Empty(t, *calls)
}

func TestClient_CreateOrderWithoutTx(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error": "input mint not supported"}`)
	})

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Owner: "owner", Base: "base", InputMint: solMint, OutputMint: usdcMint, InAmount: 1, OutAmount: 1,
	})
	var aggErr *AggregatorError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, OpOpenOrder, aggErr.Operation)
	assert.Equal(t, "input mint not supported", aggErr.Message)
}

func TestClient_CancelOrders(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tx": "AQID"}`)
	})

	_, err := client.CancelOrders(context.Background(), CancelOrdersRequest{
		Owner:  "owner",
		Orders: []string{"o1", "o2", "o3"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"owner","feePayer":"owner","orders":["o1","o2","o3"]}`, string((*calls)[0].body))

	_, err = client.CancelOrders(context.Background(), CancelOrdersRequest{Owner: "owner", FeePayer: "owner"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"owner","feePayer":"owner"}`, string((*calls)[1].body))

	_, err = client.CancelOrders(context.Background(), CancelOrdersRequest{})
	assert.Error(t, err)
}

func TestClient_OpenOrders(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{
			"publicKey": "order1",
			"account": {
				"maker": "owner",
				"inputMint": "`+solMint+`",
				"outputMint": "`+usdcMint+`",
				"oriInAmount": "1000000",
				"oriOutAmount": "200000",
				"inAmount": "500000",
				"outAmount": "100000",
				"expiredAt": null,
				"base": "base1"
			}
		}]`)
	})

	orders, err := client.OpenOrders(context.Background(), "owner", solMint, "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order1", orders[0].PublicKey)
	assert.Equal(t, json.Number("500000"), orders[0].Account.InAmount)
	assert.Nil(t, orders[0].Account.ExpiredAt)

	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/query-open-orders", call.path)
	assert.Equal(t, "owner", call.query.Get("wallet"))
	assert.Equal(t, solMint, call.query.Get("inputMint"))
	assert.False(t, call.query.Has("outputMint"))

	_, err = client.OpenOrders(context.Background(), "", "", "")
	assert.Error(t, err)
}

func TestClient_History(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/query-trade-history" {
			_, _ = io.WriteString(w, `[{"id": 7, "inAmount": "10", "outAmount": "2", "txid": "sig", "orderKey": "order1", "order": {"inputMint": "a", "outputMint": "b"}}]`)
			return
		}
		_, _ = io.WriteString(w, `[{"id": 3, "orderKey": "order1", "maker": "owner", "state": "Completed", "inAmount": "10", "createTxid": "sig"}]`)
	})

	cursor := int64(2)
	take := 5
	orders, err := client.OrderHistory(context.Background(), HistoryRequest{Wallet: "owner", Cursor: &cursor, Take: &take})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Completed", orders[0].State)
	assert.Equal(t, "2", (*calls)[0].query.Get("cursor"))
	assert.Equal(t, "5", (*calls)[0].query.Get("take"))

	trades, err := client.TradeHistory(context.Background(), HistoryRequest{Wallet: "owner", InputMint: "a"})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "sig", trades[0].Txid)
	assert.Equal(t, "a", (*calls)[1].query.Get("inputMint"))

	zero := 0
	_, err = client.TradeHistory(context.Background(), HistoryRequest{Wallet: "owner", Take: &zero})
	assert.Error(t, err)
}
