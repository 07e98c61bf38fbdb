package server

import "time"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK        bool   `json:"ok"`               // Service health status
	CanSign   bool   `json:"can_sign"`         // Whether execution routes are available
	Wallet    string `json:"wallet,omitempty"` // Wallet public key when a signer is loaded
	Journal   bool   `json:"journal"`          // Whether executions are recorded
	Switches  bool   `json:"switches"`         // Whether execution switches are available
	CheckedAt string `json:"checked_at"`       // RFC3339 server time
}

// ItemsResponse wraps list responses
type ItemsResponse struct {
	Items any `json:"items"` // Listed entries
}

// SwapRequest represents a request to execute a swap
// Mints accept a registry symbol (SOL, USDC, ...) or a base58 mint address
// Amounts are base units sent as strings
type SwapRequest struct {
	InputMint                 string   `json:"inputMint" validate:"required"`
	OutputMint                string   `json:"outputMint" validate:"required,nefield=InputMint"`
	Amount                    string   `json:"amount" validate:"required,numeric"`
	SlippageBps               *uint16  `json:"slippageBps,omitempty" validate:"omitempty,max=10000"`
	SwapMode                  string   `json:"swapMode,omitempty" validate:"omitempty,oneof=ExactIn ExactOut"`
	OnlyDirectRoutes          bool     `json:"onlyDirectRoutes,omitempty"`
	AsLegacyTransaction       bool     `json:"asLegacyTransaction,omitempty"`
	ExcludeDexes              []string `json:"excludeDexes,omitempty"`
	MaxAccounts               *uint64  `json:"maxAccounts,omitempty" validate:"omitempty,min=1"`
	WrapAndUnwrapSol          *bool    `json:"wrapAndUnwrapSol,omitempty"`
	PrioritizationFeeLamports *uint64  `json:"prioritizationFeeLamports,omitempty"`

	// FeeAccount receives the fixed fee transfer when set
	FeeAccount string `json:"feeAccount,omitempty" validate:"omitempty,pubkey"`
}

// LimitOrderRequest represents a request to open a limit order
// InAmount is sold for at least OutAmount, both in base units
type LimitOrderRequest struct {
	InputMint  string `json:"inputMint" validate:"required"`
	OutputMint string `json:"outputMint" validate:"required,nefield=InputMint"`
	InAmount   string `json:"inAmount" validate:"required,numeric"`
	OutAmount  string `json:"outAmount" validate:"required,numeric"`

	// ExpiredAt is a unix timestamp in seconds
	ExpiredAt *int64 `json:"expiredAt,omitempty" validate:"omitempty,gt=0"`
}

// CancelOrdersRequest represents a request to cancel limit orders
// An empty list cancels every open order of the wallet
type CancelOrdersRequest struct {
	Orders []string `json:"orders" validate:"omitempty,dive,pubkey"`
}

// CancelOrdersResponse reports the cancellation transaction
type CancelOrdersResponse struct {
	TransactionHash string `json:"transaction_hash"` // Ledger transaction id
	Orders          int    `json:"orders"`           // Number of orders named in the request, 0 for all
}

// SwitchUpdateRequest represents a request to flip an execution switch
type SwitchUpdateRequest struct {
	Enabled *bool  `json:"enabled" validate:"required"`
	Reason  string `json:"reason,omitempty" validate:"max=256"`
}

// SwitchStateResponse reports the effective state of an operation
type SwitchStateResponse struct {
	Operation string     `json:"operation"`
	Enabled   bool       `json:"enabled"`
	Reason    string     `json:"reason,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"` // Nil when the switch was never set
}
