// Package tokens resolves token symbols and human readable amounts into the
// mint addresses and base units the aggregator works with.
package tokens

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Token is a resolved mint with its decimal precision.
type Token struct {
	Symbol   string
	Mint     solana.PublicKey
	Decimals uint8
	Known    bool // false when resolved from a raw mint outside the registry
}

var bySymbol = func() map[string]string {
	m := make(map[string]string, len(constants.TokenSymbols))
	for mint, sym := range constants.TokenSymbols {
		m[strings.ToUpper(sym)] = mint
	}
	return m
}()

// Resolve accepts either a registry symbol (case-insensitive) or a base58 mint.
func Resolve(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, fmt.Errorf("token is required")
	}

	if mint, ok := bySymbol[strings.ToUpper(s)]; ok {
		sym := constants.TokenSymbols[mint]
		return Token{
			Symbol:   sym,
			Mint:     solana.MustPublicKeyFromBase58(mint),
			Decimals: constants.TokenDecimals[sym],
			Known:    true,
		}, nil
	}

	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return Token{}, fmt.Errorf("unknown token %q: %w", s, err)
	}
	if sym, ok := constants.TokenSymbols[pk.String()]; ok {
		return Token{Symbol: sym, Mint: pk, Decimals: constants.TokenDecimals[sym], Known: true}, nil
	}
	return Token{Symbol: pk.String(), Mint: pk}, nil
}

// ToBaseUnits converts a decimal amount string ("0.25") into integer base units.
// Fractions finer than the token precision are rejected rather than rounded.
func ToBaseUnits(amount string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be > 0")
	}

	raw := d.Shift(int32(decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return 0, fmt.Errorf("amount %s exceeds %d decimal places", amount, decimals)
	}
	if raw.GreaterThan(fromUint64(^uint64(0))) {
		return 0, fmt.Errorf("amount %s overflows uint64", amount)
	}
	return raw.BigInt().Uint64(), nil
}

// FromBaseUnits renders base units as a decimal string for display.
func FromBaseUnits(raw uint64, decimals uint8) string {
	return fromUint64(raw).Shift(-int32(decimals)).String()
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
