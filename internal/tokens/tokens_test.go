package tokens

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Symbol(t *testing.T) {
	tok, err := Resolve("usdc")
	require.NoError(t, err)
	assert.Equal(t, "USDC", tok.Symbol)
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", tok.Mint.String())
	assert.Equal(t, uint8(6), tok.Decimals)
	assert.True(t, tok.Known)
}

func TestResolve_KnownMint(t *testing.T) {
	tok, err := Resolve("So11111111111111111111111111111111111111112")
	require.NoError(t, err)
	assert.Equal(t, "SOL", tok.Symbol)
	assert.Equal(t, uint8(9), tok.Decimals)
}

func TestResolve_UnknownMint(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	tok, err := Resolve(mint.String())
	require.NoError(t, err)
	assert.False(t, tok.Known)
	assert.Equal(t, mint, tok.Mint)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve("")
	assert.Error(t, err)

	_, err = Resolve("not-a-token")
	assert.Error(t, err)
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{"1", 9, 1_000_000_000, false},
		{"0.001", 9, 1_000_000, false},
		{"2.5", 6, 2_500_000, false},
		{"0.0000001", 6, 0, true},
		{"0", 6, 0, true},
		{"-1", 6, 0, true},
		{"abc", 6, 0, true},
		{"99999999999999999999", 9, 0, true},
	}

	for _, tt := range tests {
		got, err := ToBaseUnits(tt.amount, tt.decimals)
		if tt.wantErr {
			assert.Error(t, err, tt.amount)
			continue
		}
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got, tt.amount)
	}
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "0.002", FromBaseUnits(2_000_000, 9))
	assert.Equal(t, "1", FromBaseUnits(1_000_000, 6))
}
