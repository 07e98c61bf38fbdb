package txcodec

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/aman-zulfiqar/jupiter-solana/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var (
	testSwapProgram = solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")
	testBlockhash   = solana.Hash{7, 7, 7, 7}
)

func newKeypair(t *testing.T) *wallet.Keypair {
	t.Helper()
	kp, err := wallet.NewEphemeralKeypair()
	require.NoError(t, err)
	return kp
}

// newSwapTx builds a legacy transaction shaped like an aggregator swap: the
// payer signs, a few pool accounts are writable, a mint is readonly. Extra
// signers are added as writable signers after the payer. Signature slots are
// zero-filled the way the aggregator returns them.
func newSwapTx(t *testing.T, payer solana.PublicKey, extraSigners ...solana.PublicKey) *solana.Transaction {
	t.Helper()

	accounts := solana.AccountMetaSlice{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
	}
	for _, s := range extraSigners {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: s, IsSigner: true, IsWritable: true})
	}
	accounts = append(accounts,
		&solana.AccountMeta{PublicKey: solana.NewWallet().PublicKey(), IsWritable: true},
		&solana.AccountMeta{PublicKey: solana.NewWallet().PublicKey(), IsWritable: true},
		&solana.AccountMeta{PublicKey: solana.NewWallet().PublicKey()},
	)

	ixs := []solana.Instruction{
		solana.NewInstruction(testSwapProgram, accounts, []byte{0xe5, 0x17, 0xcb, 0x97, 1, 2, 3}),
	}

	tx, err := solana.NewTransaction(ixs, testBlockhash, solana.TransactionPayer(payer))
	require.NoError(t, err)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx
}

// newV0SwapTx is newSwapTx as a v0 message whose swap instruction also
// references two accounts loaded from an address lookup table.
func newV0SwapTx(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()

	tx := newSwapTx(t, payer)
	tx.Message.SetVersion(solana.MessageVersionV0)
	tx.Message.AddressTableLookups = solana.MessageAddressTableLookupSlice{
		{
			AccountKey:      solana.NewWallet().PublicKey(),
			WritableIndexes: []uint8{3},
			ReadonlyIndexes: []uint8{9},
		},
	}
	static := uint16(len(tx.Message.AccountKeys))
	tx.Message.Instructions[0].Accounts = append(tx.Message.Instructions[0].Accounts, static, static+1)
	return tx
}

func encode(t *testing.T, tx *solana.Transaction) string {
	t.Helper()
	b, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(b)
}

// labels resolves every compiled instruction to key names so layouts can be
// compared across account table rewrites. Lookup slots are labelled by their
// position after the static keys.
func labels(msg *solana.Message) [][]string {
	static := len(msg.AccountKeys)
	name := func(idx uint16) string {
		if int(idx) < static {
			return msg.AccountKeys[idx].String()
		}
		return fmt.Sprintf("lookup:%d", int(idx)-static)
	}

	out := make([][]string, 0, len(msg.Instructions))
	for _, ci := range msg.Instructions {
		row := []string{name(ci.ProgramIDIndex)}
		for _, a := range ci.Accounts {
			row = append(row, name(a))
		}
		out = append(out, row)
	}
	return out
}

func isWritable(msg *solana.Message, key solana.PublicKey) bool {
	h := msg.Header
	signed := int(h.NumRequiredSignatures)
	for i, k := range msg.AccountKeys {
		if !k.Equals(key) {
			continue
		}
		if i < signed {
			return i < signed-int(h.NumReadonlySignedAccounts)
		}
		return i < len(msg.AccountKeys)-int(h.NumReadonlyUnsignedAccounts)
	}
	return false
}

func isSigner(msg *solana.Message, key solana.PublicKey) bool {
	for i, k := range msg.AccountKeys {
		if k.Equals(key) {
			return i < int(msg.Header.NumRequiredSignatures)
		}
	}
	return false
}

type lyingSigner struct {
	claimed solana.PublicKey
	real    *wallet.Keypair
}

func (l lyingSigner) PublicKey() solana.PublicKey { return l.claimed }
func (l lyingSigner) Sign(message []byte) (solana.Signature, error) {
	return l.real.Sign(message)
}
