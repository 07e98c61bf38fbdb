package swapengine

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
)

// SwapRequest describes one swap. Amount is in base units.
type SwapRequest struct {
	// Core swap parameters
	InputMint  string
	OutputMint string
	Amount     uint64

	// Quote parameters, ignored when Quote is set
	SlippageBps         *uint16 // defaults to DefaultSlippageBps
	SwapMode            string
	OnlyDirectRoutes    bool
	AsLegacyTransaction bool
	ExcludeDexes        []string
	MaxAccounts         *uint64
	PlatformFeeBps      *uint16

	// Quote skips the quote call and builds the swap for this route
	Quote *jupiter.QuoteResponse

	// Swap build parameters
	WrapAndUnwrapSol          *bool // defaults to the engine setting
	PrioritizationFeeLamports *uint64

	// FeeAccount receives constants.FeeTransferLamports from the wallet
	// inside the swap transaction when set
	FeeAccount *solana.PublicKey
}

// SwapExecution is what ExecuteSwapWithMeta reports about a submitted swap.
type SwapExecution struct {
	ExecutionID string                 `json:"execution_id"`
	Signature   solana.Signature       `json:"transaction_hash"`
	InputMint   string                 `json:"input_mint"`
	OutputMint  string                 `json:"output_mint"`
	Amount      uint64                 `json:"amount"`
	FeeAccount  string                 `json:"fee_account,omitempty"`
	Quote       *jupiter.QuoteResponse `json:"quote"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Duration    time.Duration          `json:"duration"`
}

// LimitOrderRequest opens a limit order selling InAmount of InputMint for at
// least OutAmount of OutputMint. Amounts are in base units.
type LimitOrderRequest struct {
	InputMint  string
	OutputMint string
	InAmount   uint64
	OutAmount  uint64
	// ExpiredAt is a unix timestamp; nil keeps the order open until filled or cancelled
	ExpiredAt *int64
}

// LimitOrderResult identifies a newly opened order.
type LimitOrderResult struct {
	ExecutionID string           `json:"execution_id"`
	Signature   solana.Signature `json:"transaction_hash"`
	// Order is the order account key, the one CancelLimitOrders takes. It is
	// zero when the aggregator did not report it.
	Order solana.PublicKey `json:"order"`
	// Base is the one-off key that co-signed the order creation
	Base solana.PublicKey `json:"base"`
}
