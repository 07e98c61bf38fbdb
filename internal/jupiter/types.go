package jupiter

import (
	"encoding/json"
)

// QuoteRequest describes a quote. Amount is in base units of the input mint
// for ExactIn and of the output mint for ExactOut.
type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     uint64

	SlippageBps *uint16
	SwapMode    string // ExactIn | ExactOut, ExactIn when empty

	Dexes        []string
	ExcludeDexes []string

	RestrictIntermediateTokens *bool
	OnlyDirectRoutes           bool
	AsLegacyTransaction        bool

	PlatformFeeBps *uint16
	MaxAccounts    *uint64

	InstructionVersion string // V1 | V2
	DynamicSlippage    *bool
}

// QuoteResponse is the typed view of a quote. The payload it was decoded
// from is kept and emitted verbatim by MarshalJSON, so fields this struct
// does not model still reach the swap endpoint.
type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             string          `json:"inAmount"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          uint16          `json:"slippageBps"`
	PlatformFee          *PlatformFee    `json:"platformFee,omitempty"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`

	ContextSlot uint64  `json:"contextSlot,omitempty"`
	TimeTaken   float64 `json:"timeTaken,omitempty"`

	// Error is set by the aggregator when no route was found.
	Error string `json:"error,omitempty"`

	raw json.RawMessage
}

type quoteAlias QuoteResponse

func (q *QuoteResponse) UnmarshalJSON(b []byte) error {
	var a quoteAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*q = QuoteResponse(a)
	q.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (q QuoteResponse) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	return json.Marshal(quoteAlias(q))
}

// Raw returns the payload the quote was decoded from, nil for quotes built in code.
func (q *QuoteResponse) Raw() json.RawMessage { return q.raw }

type PlatformFee struct {
	Amount string `json:"amount,omitempty"`
	FeeBps uint16 `json:"feeBps,omitempty"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  *uint8   `json:"percent,omitempty"`
	Bps      uint16   `json:"bps"`
}

type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`

	FeeAmount *string `json:"feeAmount,omitempty"`
	FeeMint   *string `json:"feeMint,omitempty"`
}

// SwapTransactionRequest asks the aggregator to build the swap for a quote.
type SwapTransactionRequest struct {
	Quote                     *QuoteResponse `json:"quoteResponse"`
	UserPublicKey             string         `json:"userPublicKey"`
	WrapAndUnwrapSol          bool           `json:"wrapAndUnwrapSol"`
	PrioritizationFeeLamports *uint64        `json:"prioritizationFeeLamports,omitempty"`
	AsLegacyTransaction       *bool          `json:"asLegacyTransaction,omitempty"`
}

type SwapTransactionResponse struct {
	SwapTransaction           string `json:"swapTransaction"`
	LastValidBlockHeight      uint64 `json:"lastValidBlockHeight,omitempty"`
	PrioritizationFeeLamports uint64 `json:"prioritizationFeeLamports,omitempty"`
}

// CreateOrderRequest opens a limit order. Base is the public key of the
// one-off keypair that becomes the order account.
type CreateOrderRequest struct {
	Owner      string `json:"owner"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	OutAmount  uint64 `json:"outAmount"`
	InAmount   uint64 `json:"inAmount"`
	Base       string `json:"base"`
	ExpiredAt  *int64 `json:"expiredAt,omitempty"`
}

// CancelOrdersRequest cancels orders by account. An empty Orders list
// cancels every open order of Owner.
type CancelOrdersRequest struct {
	Owner    string   `json:"owner"`
	FeePayer string   `json:"feePayer"`
	Orders   []string `json:"orders,omitempty"`
}

type orderTxResponse struct {
	Tx          string `json:"tx"`
	OrderPubkey string `json:"orderPubkey"`
	Order       string `json:"order"`
}

// CreateOrderResponse carries the unsigned transaction and the order account
// it creates. Order is the key to pass when cancelling; it is empty when the
// aggregator did not report it.
type CreateOrderResponse struct {
	Tx    string
	Order string
}

// Order is an open limit order as the aggregator lists it.
type Order struct {
	PublicKey string       `json:"publicKey"`
	Account   OrderAccount `json:"account"`
}

type OrderAccount struct {
	Maker        string      `json:"maker"`
	InputMint    string      `json:"inputMint"`
	OutputMint   string      `json:"outputMint"`
	OriInAmount  json.Number `json:"oriInAmount"`
	OriOutAmount json.Number `json:"oriOutAmount"`
	InAmount     json.Number `json:"inAmount"`
	OutAmount    json.Number `json:"outAmount"`
	ExpiredAt    *string     `json:"expiredAt"`
	Base         string      `json:"base"`
	CreatedAt    string      `json:"createdAt,omitempty"`
	UpdatedAt    string      `json:"updatedAt,omitempty"`
	Waiting      bool        `json:"waiting,omitempty"`
}

// HistoryRequest pages through order or trade history of a wallet.
type HistoryRequest struct {
	Wallet     string
	InputMint  string
	OutputMint string
	Cursor     *int64
	Take       *int
}

// HistoryOrder is a closed or filled order.
type HistoryOrder struct {
	ID           int64       `json:"id"`
	OrderKey     string      `json:"orderKey"`
	Maker        string      `json:"maker"`
	InputMint    string      `json:"inputMint"`
	OutputMint   string      `json:"outputMint"`
	InAmount     json.Number `json:"inAmount"`
	OriInAmount  json.Number `json:"oriInAmount"`
	OutAmount    json.Number `json:"outAmount"`
	OriOutAmount json.Number `json:"oriOutAmount"`
	ExpiredAt    *string     `json:"expiredAt"`
	State        string      `json:"state"`
	CreateTxid   string      `json:"createTxid"`
	CancelTxid   string      `json:"cancelTxid,omitempty"`
	UpdatedAt    string      `json:"updatedAt"`
	CreatedAt    string      `json:"createdAt"`
}

// Trade is a fill against one of the wallet's orders.
type Trade struct {
	ID        int64       `json:"id"`
	InAmount  json.Number `json:"inAmount"`
	OutAmount json.Number `json:"outAmount"`
	Txid      string      `json:"txid"`
	UpdatedAt string      `json:"updatedAt"`
	CreatedAt string      `json:"createdAt"`
	OrderKey  string      `json:"orderKey"`
	Order     *TradeOrder `json:"order,omitempty"`
}

type TradeOrder struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
}
