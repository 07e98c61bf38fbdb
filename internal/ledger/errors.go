package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	nativerpc "github.com/aman-zulfiqar/jupiter-solana/internal/rpc"
)

// Kind classifies why the ledger refused a transaction.
type Kind string

const (
	KindBlockhashNotFound Kind = "blockhash_not_found"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindSimulationFailed  Kind = "simulation_failed"
	KindRejected          Kind = "rejected"
	KindTransport         Kind = "transport"
)

// SubmissionError is any failure to hand a signed transaction to the ledger.
type SubmissionError struct {
	Kind    Kind
	Code    int
	Message string
	Logs    []string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("submission failed (%s, code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("submission failed (%s): %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// classify maps node errors onto a Kind. Anything that is not a JSON-RPC
// error response never reached the ledger and counts as transport.
func classify(err error) *SubmissionError {
	out := &SubmissionError{Kind: KindTransport, Message: err.Error(), Err: err}

	var nativeErr *nativerpc.RPCError
	var goErr *jsonrpc.RPCError
	switch {
	case errors.As(err, &nativeErr):
		out.Code = nativeErr.Code
		out.Message = nativeErr.Message
		out.Logs = nativeErr.Logs()
	case errors.As(err, &goErr):
		out.Code = goErr.Code
		out.Message = goErr.Message
		out.Logs = logsFromData(goErr.Data)
	default:
		return out
	}

	msg := strings.ToLower(out.Message)
	switch {
	case strings.Contains(msg, "blockhash not found"):
		out.Kind = KindBlockhashNotFound
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "attempt to debit an account but found no record of a prior credit"):
		out.Kind = KindInsufficientFunds
	case strings.Contains(msg, "simulation failed"):
		out.Kind = KindSimulationFailed
	default:
		out.Kind = KindRejected
	}
	return out
}

func logsFromData(data interface{}) []string {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := m["logs"].([]interface{})
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}
