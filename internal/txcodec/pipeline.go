package txcodec

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer produces detached signatures for one public key.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(message []byte) (solana.Signature, error)
}

// SignerRole names the part a signer plays in a transaction ("owner", "base").
// Slots are assigned by matching the signer's key against the message
// header, never by the order roles are passed in.
type SignerRole struct {
	Name   string
	Signer Signer
}

// Stage tracks a transaction through decode, instrument, sign and encode.
type Stage int

const (
	StageDecoded Stage = iota
	StageInstrumented
	StageSigned
	StageEncoded // the wire form returned by SignedTransaction.Encode
)

func (s Stage) String() string {
	switch s {
	case StageDecoded:
		return "decoded"
	case StageInstrumented:
		return "instrumented"
	case StageSigned:
		return "signed"
	case StageEncoded:
		return "encoded"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Draft is a decoded transaction that may still be instrumented. Signing
// seals it and yields a SignedTransaction, the only form the submitter takes.
type Draft struct {
	tx    *solana.Transaction
	stage Stage
}

// Decode parses a base64 payload into a draft.
func Decode(payload string) (*Draft, error) {
	tx, err := DecodeTransaction(payload)
	if err != nil {
		return nil, err
	}
	return &Draft{tx: tx, stage: StageDecoded}, nil
}

// NewDraft wraps an already decoded transaction.
func NewDraft(tx *solana.Transaction) (*Draft, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}
	if err := validate(tx); err != nil {
		return nil, err
	}
	return &Draft{tx: tx, stage: StageDecoded}, nil
}

func (d *Draft) Stage() Stage { return d.stage }

// Message exposes the message for inspection. Mutate it through AppendInstruction.
func (d *Draft) Message() *solana.Message { return &d.tx.Message }

// RequiredSigners lists the keys the message requires, in slot order.
func (d *Draft) RequiredSigners() []solana.PublicKey { return RequiredSigners(&d.tx.Message) }

// AppendInstruction splices ix after the existing instructions.
func (d *Draft) AppendInstruction(ix solana.Instruction) error {
	if d.stage >= StageSigned {
		return ErrDraftSealed
	}
	if err := AppendInstruction(&d.tx.Message, ix); err != nil {
		return err
	}
	d.stage = StageInstrumented
	return nil
}

// SignableBytes returns the bytes signatures are computed over.
func (d *Draft) SignableBytes() ([]byte, error) { return SignableBytes(&d.tx.Message) }

// Sign fills every required slot. Each slot takes the signature of the role
// whose key sits at that position in the account table. A slot without a
// matching role keeps a signature that arrived with the payload only if it
// verifies against the current message. Unused roles, missing signers and
// signatures that do not verify are errors; the draft is unchanged on error.
func (d *Draft) Sign(roles ...SignerRole) (*SignedTransaction, error) {
	if d.stage >= StageSigned {
		return nil, ErrDraftSealed
	}

	msg, err := d.SignableBytes()
	if err != nil {
		return nil, err
	}

	required := d.RequiredSigners()
	byKey := make(map[solana.PublicKey]SignerRole, len(roles))
	for _, r := range roles {
		if r.Signer == nil {
			return nil, fmt.Errorf("role %q has no signer", r.Name)
		}
		k := r.Signer.PublicKey()
		if prev, dup := byKey[k]; dup {
			return nil, &SignatureSlotMismatchError{Slot: -1, Key: k, Role: r.Name, Required: len(required),
				Reason: fmt.Sprintf("key already assigned to role %q", prev.Name)}
		}
		byKey[k] = r
	}

	sigs := make([]solana.Signature, len(required))
	slotRoles := make([]string, len(required))
	used := make(map[solana.PublicKey]bool, len(roles))
	for i, key := range required {
		if r, ok := byKey[key]; ok {
			sig, err := r.Signer.Sign(msg)
			if err != nil {
				return nil, fmt.Errorf("sign slot %d (%s): %w", i, r.Name, err)
			}
			if !verify(key, msg, sig) {
				return nil, &SignatureSlotMismatchError{Slot: i, Key: key, Role: r.Name, Required: len(required),
					Reason: "signature does not verify against slot key"}
			}
			sigs[i] = sig
			slotRoles[i] = r.Name
			used[key] = true
			continue
		}

		if i < len(d.tx.Signatures) && d.tx.Signatures[i] != (solana.Signature{}) && verify(key, msg, d.tx.Signatures[i]) {
			sigs[i] = d.tx.Signatures[i]
			slotRoles[i] = "presigned"
			continue
		}

		return nil, &SignatureSlotMismatchError{Slot: i, Key: key, Required: len(required),
			Reason: "no signer supplied for required slot"}
	}

	for _, r := range roles {
		if !used[r.Signer.PublicKey()] {
			return nil, &SignatureSlotMismatchError{Slot: -1, Key: r.Signer.PublicKey(), Role: r.Name, Required: len(required),
				Reason: "signer is not required by the message"}
		}
	}

	signed := &solana.Transaction{
		Signatures: sigs,
		Message:    d.tx.Message,
	}
	d.tx = signed
	d.stage = StageSigned
	return &SignedTransaction{tx: signed, roles: slotRoles}, nil
}

// SignedTransaction has every required slot filled with a verified signature.
type SignedTransaction struct {
	tx    *solana.Transaction
	roles []string
}

// Transaction returns the signed transaction for submission.
func (s *SignedTransaction) Transaction() *solana.Transaction { return s.tx }

// Signature is the first slot, which the ledger uses as the transaction id.
func (s *SignedTransaction) Signature() solana.Signature { return s.tx.Signatures[0] }

// Signatures returns the slot list in header order.
func (s *SignedTransaction) Signatures() []solana.Signature {
	out := make([]solana.Signature, len(s.tx.Signatures))
	copy(out, s.tx.Signatures)
	return out
}

// SlotRoles names the role that filled each slot.
func (s *SignedTransaction) SlotRoles() []string {
	out := make([]string, len(s.roles))
	copy(out, s.roles)
	return out
}

// Encode returns the base64 wire form.
func (s *SignedTransaction) Encode() (string, error) { return EncodeTransaction(s.tx) }

func verify(key solana.PublicKey, msg []byte, sig solana.Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(key[:]), msg, sig[:])
}
