package txcodec

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SignSingleSigner(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)
	assert.Equal(t, StageDecoded, draft.Stage())

	signed, err := draft.Sign(SignerRole{Name: "owner", Signer: owner})
	require.NoError(t, err)

	msg, err := SignableBytes(&signed.Transaction().Message)
	require.NoError(t, err)
	assert.True(t, verify(owner.PublicKey(), msg, signed.Signature()))
	assert.Equal(t, []string{"owner"}, signed.SlotRoles())
	assert.Equal(t, StageSigned, draft.Stage())
}

func TestDraft_SignatureCoversAppendedInstruction(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)

	original, err := draft.SignableBytes()
	require.NoError(t, err)

	require.NoError(t, draft.AppendInstruction(transfer(t, owner.PublicKey(), solana.NewWallet().PublicKey())))
	assert.Equal(t, StageInstrumented, draft.Stage())

	signed, err := draft.Sign(SignerRole{Name: "owner", Signer: owner})
	require.NoError(t, err)

	final, err := SignableBytes(&signed.Transaction().Message)
	require.NoError(t, err)
	assert.True(t, verify(owner.PublicKey(), final, signed.Signature()))
	assert.False(t, verify(owner.PublicKey(), original, signed.Signature()))
}

func TestDraft_SlotsFollowHeaderNotArgumentOrder(t *testing.T) {
	owner := newKeypair(t)
	base := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey(), base.PublicKey())))
	require.NoError(t, err)

	signed, err := draft.Sign(
		SignerRole{Name: "base", Signer: base},
		SignerRole{Name: "owner", Signer: owner},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"owner", "base"}, signed.SlotRoles())
	sigs := signed.Signatures()
	require.Len(t, sigs, 2)

	msg, err := SignableBytes(&signed.Transaction().Message)
	require.NoError(t, err)
	assert.True(t, verify(owner.PublicKey(), msg, sigs[0]))
	assert.True(t, verify(base.PublicKey(), msg, sigs[1]))
	assert.Equal(t, sigs[0], signed.Signature())
}

func TestDraft_MissingSigner(t *testing.T) {
	owner := newKeypair(t)
	base := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey(), base.PublicKey())))
	require.NoError(t, err)

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner})
	var mErr *SignatureSlotMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, 1, mErr.Slot)
	assert.Equal(t, base.PublicKey(), mErr.Key)
	assert.Equal(t, 2, mErr.Required)

	// draft is still usable
	assert.Equal(t, StageDecoded, draft.Stage())
	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner}, SignerRole{Name: "base", Signer: base})
	require.NoError(t, err)
}

func TestDraft_ExtraSigner(t *testing.T) {
	owner := newKeypair(t)
	stranger := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner}, SignerRole{Name: "base", Signer: stranger})
	var mErr *SignatureSlotMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, -1, mErr.Slot)
	assert.Equal(t, "base", mErr.Role)
}

func TestDraft_DuplicateRoleKey(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner}, SignerRole{Name: "fee-payer", Signer: owner})
	var mErr *SignatureSlotMismatchError
	require.ErrorAs(t, err, &mErr)
}

func TestDraft_KeepsValidPresignedSlot(t *testing.T) {
	owner := newKeypair(t)
	base := newKeypair(t)
	tx := newSwapTx(t, owner.PublicKey(), base.PublicKey())
	msg, err := SignableBytes(&tx.Message)
	require.NoError(t, err)
	tx.Signatures[1], err = base.Sign(msg)
	require.NoError(t, err)

	draft, err := Decode(encode(t, tx))
	require.NoError(t, err)

	signed, err := draft.Sign(SignerRole{Name: "owner", Signer: owner})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "presigned"}, signed.SlotRoles())
	assert.Equal(t, tx.Signatures[1], signed.Signatures()[1])
}

func TestDraft_RejectsStalePresignedSlot(t *testing.T) {
	owner := newKeypair(t)
	base := newKeypair(t)
	tx := newSwapTx(t, owner.PublicKey(), base.PublicKey())
	msg, err := SignableBytes(&tx.Message)
	require.NoError(t, err)
	tx.Signatures[1], err = base.Sign(msg)
	require.NoError(t, err)

	draft, err := Decode(encode(t, tx))
	require.NoError(t, err)
	// the appended instruction invalidates the partner signature
	require.NoError(t, draft.AppendInstruction(transfer(t, owner.PublicKey(), solana.NewWallet().PublicKey())))

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner})
	var mErr *SignatureSlotMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, 1, mErr.Slot)
}

func TestDraft_RejectsLyingSigner(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: lyingSigner{claimed: owner.PublicKey(), real: newKeypair(t)}})
	var mErr *SignatureSlotMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, 0, mErr.Slot)
}

func TestDraft_SealedAfterSign(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newSwapTx(t, owner.PublicKey())))
	require.NoError(t, err)

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner})
	require.NoError(t, err)

	err = draft.AppendInstruction(transfer(t, owner.PublicKey(), solana.NewWallet().PublicKey()))
	assert.True(t, errors.Is(err, ErrDraftSealed))

	_, err = draft.Sign(SignerRole{Name: "owner", Signer: owner})
	assert.True(t, errors.Is(err, ErrDraftSealed))
}

func TestSignedTransaction_EncodeRoundTrip(t *testing.T) {
	owner := newKeypair(t)
	draft, err := Decode(encode(t, newV0SwapTx(t, owner.PublicKey())))
	require.NoError(t, err)
	require.NoError(t, draft.AppendInstruction(transfer(t, owner.PublicKey(), solana.NewWallet().PublicKey())))

	signed, err := draft.Sign(SignerRole{Name: "owner", Signer: owner})
	require.NoError(t, err)

	payload, err := signed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTransaction(payload)
	require.NoError(t, err)
	assert.Equal(t, signed.Signatures(), decoded.Signatures)

	msg, err := SignableBytes(&decoded.Message)
	require.NoError(t, err)
	assert.True(t, verify(owner.PublicKey(), msg, decoded.Signatures[0]))
}

func TestNewDraft_ValidatesTransaction(t *testing.T) {
	_, err := NewDraft(nil)
	assert.Error(t, err)

	tx := newSwapTx(t, newKeypair(t).PublicKey())
	tx.Message.Header.NumRequiredSignatures = 0
	_, err = NewDraft(tx)
	var mErr *MalformedTransactionError
	assert.ErrorAs(t, err, &mErr)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "decoded", StageDecoded.String())
	assert.Equal(t, "encoded", StageEncoded.String())
	assert.Equal(t, "stage(9)", Stage(9).String())
}
