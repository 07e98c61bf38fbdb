package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Keypair holds one ed25519 key. It is read-only after construction and safe
// for concurrent use.
type Keypair struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

// NewKeypair wraps an existing private key.
func NewKeypair(priv solana.PrivateKey) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	return &Keypair{priv: priv, pub: priv.PublicKey()}, nil
}

// NewKeypairFromString parses a base58-encoded 64-byte key or a solana-keygen
// JSON array.
func NewKeypairFromString(s string) (*Keypair, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("wallet: private key is required")
	}
	priv, err := ParsePrivateKey(s)
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv)
}

// NewKeypairFromEnv reads WALLET_PRIVATE_KEY.
func NewKeypairFromEnv() (*Keypair, error) {
	return NewKeypairFromString(os.Getenv("WALLET_PRIVATE_KEY"))
}

// NewEphemeralKeypair generates a throwaway key. Callers must not persist it.
func NewEphemeralKeypair() (*Keypair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate keypair: %w", err)
	}
	return NewKeypair(priv)
}

func (k *Keypair) Address() string             { return k.pub.String() }
func (k *Keypair) PublicKey() solana.PublicKey { return k.pub }

// ParsePrivateKey decodes a base58 string or a JSON byte array into a private key.
func ParsePrivateKey(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(s), &ints); err != nil {
			return nil, fmt.Errorf("wallet: invalid JSON private key: %w", err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("wallet: invalid byte at %d: %d", i, v)
			}
			b[i] = byte(v)
		}
		if len(b) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(b))
		}
		return solana.PrivateKey(ed25519.PrivateKey(b)), nil
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid base58 private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return solana.PrivateKey(ed25519.PrivateKey(raw)), nil
}
