package txcodec

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrDraftSealed is returned when a draft is modified or signed twice.
	ErrDraftSealed = errors.New("transaction draft already signed")
)

// MalformedTransactionError reports a payload that does not parse as a valid
// (legacy or versioned) transaction envelope.
type MalformedTransactionError struct {
	Reason string
	Err    error
}

func (e *MalformedTransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed transaction: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed transaction: %s", e.Reason)
}

func (e *MalformedTransactionError) Unwrap() error { return e.Err }

func malformed(err error, format string, args ...any) error {
	return &MalformedTransactionError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// SignatureSlotMismatchError reports a disagreement between the signers a
// message requires and the signers that were supplied.
type SignatureSlotMismatchError struct {
	Slot     int // -1 when not tied to a single slot
	Key      solana.PublicKey
	Role     string
	Required int
	Reason   string
}

func (e *SignatureSlotMismatchError) Error() string {
	msg := fmt.Sprintf("signature slot mismatch: %s", e.Reason)
	if e.Slot >= 0 {
		msg += fmt.Sprintf(" (slot %d", e.Slot)
		if !e.Key.IsZero() {
			msg += " key " + e.Key.String()
		}
		msg += ")"
	}
	if e.Role != "" {
		msg += " role=" + e.Role
	}
	return msg
}
