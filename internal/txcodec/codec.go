// Package txcodec decodes aggregator supplied transactions, splices extra
// instructions into them and carries them through signing to wire form.
package txcodec

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// maxAccounts is the number of addressable accounts per message; compiled
// instruction indexes are single bytes on the wire.
const maxAccounts = 256

// DecodeTransaction parses a base64 wire transaction.
func DecodeTransaction(payload string) (*solana.Transaction, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, malformed(nil, "empty payload")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, malformed(err, "invalid base64")
	}

	return DecodeTransactionBytes(raw)
}

// DecodeTransactionBytes parses raw wire bytes.
func DecodeTransactionBytes(raw []byte) (tx *solana.Transaction, err error) {
	// the binary decoder panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			tx, err = nil, malformed(fmt.Errorf("%v", r), "decode panicked")
		}
	}()

	tx, err = solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, malformed(err, "decode envelope")
	}

	if err := validate(tx); err != nil {
		return nil, err
	}

	reencoded, err := tx.MarshalBinary()
	if err != nil {
		return nil, malformed(err, "re-encode envelope")
	}
	if len(reencoded) != len(raw) {
		return nil, malformed(nil, "%d trailing bytes", len(raw)-len(reencoded))
	}

	return tx, nil
}

// EncodeTransaction serializes tx (signatures included) to base64.
func EncodeTransaction(tx *solana.Transaction) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("transaction is nil")
	}
	b, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SignableBytes returns the canonical message serialization every signature
// is computed over. Signature slots are not part of it.
func SignableBytes(msg *solana.Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("message is nil")
	}
	b, err := msg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}
	return b, nil
}

// RequiredSigners lists the keys whose signatures the message requires, in slot order.
func RequiredSigners(msg *solana.Message) []solana.PublicKey {
	n := int(msg.Header.NumRequiredSignatures)
	if n > len(msg.AccountKeys) {
		n = len(msg.AccountKeys)
	}
	out := make([]solana.PublicKey, n)
	copy(out, msg.AccountKeys[:n])
	return out
}

func validate(tx *solana.Transaction) error {
	msg := &tx.Message
	h := msg.Header
	static := len(msg.AccountKeys)

	if h.NumRequiredSignatures == 0 {
		return malformed(nil, "message requires no signatures")
	}
	if int(h.NumRequiredSignatures) > static {
		return malformed(nil, "header requires %d signers but has %d accounts", h.NumRequiredSignatures, static)
	}
	if h.NumReadonlySignedAccounts >= h.NumRequiredSignatures {
		return malformed(nil, "fee payer must be writable")
	}
	if int(h.NumReadonlyUnsignedAccounts) > static-int(h.NumRequiredSignatures) {
		return malformed(nil, "readonly unsigned count %d exceeds unsigned accounts", h.NumReadonlyUnsignedAccounts)
	}

	if n := len(tx.Signatures); n != 0 && n != int(h.NumRequiredSignatures) {
		return malformed(nil, "%d signature slots for %d required signers", n, h.NumRequiredSignatures)
	}

	total := static + lookupCount(msg)
	if total > maxAccounts {
		return malformed(nil, "%d accounts exceeds limit", total)
	}

	seen := make(map[solana.PublicKey]struct{}, static)
	for _, k := range msg.AccountKeys {
		if _, dup := seen[k]; dup {
			return malformed(nil, "duplicate account %s", k)
		}
		seen[k] = struct{}{}
	}

	for i, ix := range msg.Instructions {
		if int(ix.ProgramIDIndex) >= static {
			return malformed(nil, "instruction %d program index %d out of range", i, ix.ProgramIDIndex)
		}
		for _, a := range ix.Accounts {
			if int(a) >= total {
				return malformed(nil, "instruction %d account index %d out of range", i, a)
			}
		}
	}
	return nil
}

func lookupCount(msg *solana.Message) int {
	n := 0
	for _, l := range msg.AddressTableLookups {
		n += len(l.WritableIndexes) + len(l.ReadonlyIndexes)
	}
	return n
}
