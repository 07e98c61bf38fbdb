package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeypairFromString_Base58(t *testing.T) {
	w := solana.NewWallet()

	kp, err := NewKeypairFromString(w.PrivateKey.String())
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), kp.PublicKey())
	assert.Equal(t, w.PublicKey().String(), kp.Address())
}

func TestNewKeypairFromString_JSONArray(t *testing.T) {
	w := solana.NewWallet()
	ints := make([]int, len(w.PrivateKey))
	for i, b := range w.PrivateKey {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)

	kp, err := NewKeypairFromString(string(raw))
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), kp.PublicKey())
}

func TestNewKeypairFromString_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"[1,2,3]",
		"[1,2,300]",
		"0OIl",
		"3yZe7d",
	}
	for _, c := range cases {
		_, err := NewKeypairFromString(c)
		assert.Error(t, err, c)
	}
}

func TestNewKeypairFromEnv(t *testing.T) {
	w := solana.NewWallet()
	os.Setenv("WALLET_PRIVATE_KEY", w.PrivateKey.String())
	defer os.Unsetenv("WALLET_PRIVATE_KEY")

	kp, err := NewKeypairFromEnv()
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), kp.PublicKey())
}

func TestNewKeypairFromEnvMissing(t *testing.T) {
	os.Unsetenv("WALLET_PRIVATE_KEY")
	_, err := NewKeypairFromEnv()
	assert.Error(t, err)
}

func TestKeypair_Sign(t *testing.T) {
	kp, err := NewEphemeralKeypair()
	require.NoError(t, err)

	msg := []byte("jupiter")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	pub := kp.PublicKey()
	assert.True(t, ed25519.Verify(pub[:], msg, sig[:]))
	assert.False(t, ed25519.Verify(pub[:], []byte("other"), sig[:]))
}

func TestNewEphemeralKeypair_Unique(t *testing.T) {
	a, err := NewEphemeralKeypair()
	require.NoError(t, err)
	b, err := NewEphemeralKeypair()
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey(), b.PublicKey())
}
