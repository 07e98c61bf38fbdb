package txcodec

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeeLamports = uint64(2_000_000)

func transfer(t *testing.T, from, to solana.PublicKey) solana.Instruction {
	t.Helper()
	return system.NewTransferInstruction(testFeeLamports, from, to).Build()
}

func TestAppendInstruction_FeeTransferAddsWritableAccount(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	fee := solana.NewWallet().PublicKey()
	tx := newSwapTx(t, payer)
	before := labels(&tx.Message)
	nIx := len(tx.Message.Instructions)

	require.NoError(t, AppendInstruction(&tx.Message, transfer(t, payer, fee)))

	msg := &tx.Message
	require.Len(t, msg.Instructions, nIx+1)
	assert.Equal(t, before, labels(msg)[:nIx], "existing instructions must resolve to the same keys")

	assert.True(t, isWritable(msg, fee))
	assert.False(t, isSigner(msg, fee))
	assert.Equal(t, payer, msg.AccountKeys[0], "fee payer stays in slot 0")
	assert.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)

	last := labels(msg)[nIx]
	assert.Equal(t, []string{solana.SystemProgramID.String(), payer.String(), fee.String()}, last)

	data := []byte(msg.Instructions[nIx].Data)
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, testFeeLamports, binary.LittleEndian.Uint64(data[4:]))

	// the result must still be a valid wire transaction
	_, err := DecodeTransaction(encode(t, tx))
	require.NoError(t, err)
}

func TestAppendInstruction_ReusesExistingAccount(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	tx := newSwapTx(t, payer)
	// first pool account is already writable
	pool := tx.Message.AccountKeys[1]
	require.True(t, isWritable(&tx.Message, pool))
	count := len(tx.Message.AccountKeys)

	require.NoError(t, AppendInstruction(&tx.Message, transfer(t, payer, pool)))

	// only the system program is new
	assert.Len(t, tx.Message.AccountKeys, count+1)
	assert.True(t, isWritable(&tx.Message, pool))
}

func TestAppendInstruction_PromotesReadonlyAccount(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	tx := newSwapTx(t, payer)

	var mint solana.PublicKey
	for _, k := range tx.Message.AccountKeys {
		if !k.Equals(testSwapProgram) && !isWritable(&tx.Message, k) {
			mint = k
			break
		}
	}
	require.False(t, mint.IsZero())
	before := labels(&tx.Message)

	require.NoError(t, AppendInstruction(&tx.Message, transfer(t, payer, mint)))

	assert.True(t, isWritable(&tx.Message, mint))
	assert.False(t, isSigner(&tx.Message, mint))
	assert.Equal(t, before, labels(&tx.Message)[:len(before)])
}

func TestAppendInstruction_ShiftsLookupIndexes(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	fee := solana.NewWallet().PublicKey()
	tx := newV0SwapTx(t, payer)
	before := labels(&tx.Message)
	static := len(tx.Message.AccountKeys)

	require.NoError(t, AppendInstruction(&tx.Message, transfer(t, payer, fee)))

	// fee account and system program were added to the static table
	assert.Len(t, tx.Message.AccountKeys, static+2)
	after := labels(&tx.Message)
	assert.Equal(t, before, after[:len(before)])
	assert.Contains(t, after[0], "lookup:0")
	assert.Contains(t, after[0], "lookup:1")

	decoded, err := DecodeTransaction(encode(t, tx))
	require.NoError(t, err)
	assert.Equal(t, after, labels(&decoded.Message))
}

func TestAppendInstruction_NewSignerJoinsSignedGroup(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	cosigner := newKeypair(t).PublicKey()
	tx := newSwapTx(t, payer)
	before := labels(&tx.Message)

	ix := solana.NewInstruction(testSwapProgram, solana.AccountMetaSlice{
		{PublicKey: cosigner, IsSigner: true},
	}, []byte{9})
	require.NoError(t, AppendInstruction(&tx.Message, ix))

	assert.Equal(t, []solana.PublicKey{payer, cosigner}, RequiredSigners(&tx.Message))
	assert.Equal(t, uint8(1), tx.Message.Header.NumReadonlySignedAccounts)
	assert.Equal(t, before, labels(&tx.Message)[:len(before)])
}

func TestAppendInstruction_FailureLeavesMessageUntouched(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	tx := newSwapTx(t, payer)
	tx.Message.Instructions[0].Accounts = append(tx.Message.Instructions[0].Accounts, 200)

	keys := append(solana.PublicKeySlice{}, tx.Message.AccountKeys...)
	header := tx.Message.Header
	before := labels(&tx.Message)

	err := AppendInstruction(&tx.Message, transfer(t, payer, solana.NewWallet().PublicKey()))
	var mErr *MalformedTransactionError
	require.ErrorAs(t, err, &mErr)

	assert.Equal(t, keys, tx.Message.AccountKeys)
	assert.Equal(t, header, tx.Message.Header)
	assert.Equal(t, before, labels(&tx.Message))
}

func TestAppendInstruction_AccountLimit(t *testing.T) {
	payer := newKeypair(t).PublicKey()
	tx := newSwapTx(t, payer)

	metas := make(solana.AccountMetaSlice, 0, maxAccounts)
	for i := 0; i < maxAccounts; i++ {
		metas = append(metas, &solana.AccountMeta{PublicKey: solana.NewWallet().PublicKey()})
	}
	count := len(tx.Message.AccountKeys)

	err := AppendInstruction(&tx.Message, solana.NewInstruction(testSwapProgram, metas, nil))
	require.Error(t, err)
	assert.Len(t, tx.Message.AccountKeys, count)
}

func TestAppendInstruction_RequiresArguments(t *testing.T) {
	tx := newSwapTx(t, newKeypair(t).PublicKey())
	assert.Error(t, AppendInstruction(nil, transfer(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())))
	assert.Error(t, AppendInstruction(&tx.Message, nil))
}
