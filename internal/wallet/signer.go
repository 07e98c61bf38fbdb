package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Sign produces a detached signature over message.
func (k *Keypair) Sign(message []byte) (solana.Signature, error) {
	sig, err := k.priv.Sign(message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}
