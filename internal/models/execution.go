package models

import (
	"encoding/json"
	"time"
)

// Execution is the journal record of a transaction this client submitted.
type Execution struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"` // swap, limit_open, limit_cancel
	Signature   string          `json:"signature"`
	Wallet      string          `json:"wallet"`
	InputMint   string          `json:"input_mint,omitempty"`
	OutputMint  string          `json:"output_mint,omitempty"`
	InAmount    uint64          `json:"in_amount,omitempty"`
	OutAmount   uint64          `json:"out_amount,omitempty"`
	FeeAccount  string          `json:"fee_account,omitempty"`
	OrderKeys   []string        `json:"order_keys,omitempty"`
	Quote       json.RawMessage `json:"quote,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
