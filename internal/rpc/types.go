package rpc

import "encoding/json"

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// Logs returns the program logs a failed preflight simulation attached to the error.
func (e *RPCError) Logs() []string {
	if len(e.Data) == 0 {
		return nil
	}
	var data struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil
	}
	return data.Logs
}

// SendOptions control how the node handles a submitted transaction.
type SendOptions struct {
	SkipPreflight       bool
	PreflightCommitment string
	// MaxRetries is passed to the node; nil leaves its default.
	MaxRetries *uint
}

// SendTransactionResponse is the response from sendTransaction
type SendTransactionResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}

// HealthResponse is the response from getHealth
type HealthResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}
