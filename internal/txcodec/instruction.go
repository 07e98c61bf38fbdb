package txcodec

import (
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
)

type accountEntry struct {
	key      solana.PublicKey
	signer   bool
	writable bool
	old      int // index in the original static table, -1 for new keys
}

// group orders accounts the way the runtime expects them:
// writable signers, readonly signers, writable non-signers, readonly non-signers.
func (e *accountEntry) group() int {
	switch {
	case e.signer && e.writable:
		return 0
	case e.signer:
		return 1
	case e.writable:
		return 2
	default:
		return 3
	}
}

// AppendInstruction compiles ix against msg's account table and appends it
// after the existing instructions. Keys ix needs that are missing from the
// static table are inserted into their privilege group, existing keys are
// upgraded when ix needs more privilege, and every compiled index (including
// address lookup indexes of v0 messages) is remapped. msg is left untouched
// on error.
func AppendInstruction(msg *solana.Message, ix solana.Instruction) error {
	if msg == nil || ix == nil {
		return fmt.Errorf("message and instruction are required")
	}

	data, err := ix.Data()
	if err != nil {
		return fmt.Errorf("failed to encode instruction data: %w", err)
	}

	h := msg.Header
	static := len(msg.AccountKeys)
	signed := int(h.NumRequiredSignatures)
	if signed > static ||
		int(h.NumReadonlySignedAccounts) > signed ||
		int(h.NumReadonlyUnsignedAccounts) > static-signed {
		return malformed(nil, "inconsistent message header")
	}
	lookups := lookupCount(msg)

	entries := make([]*accountEntry, 0, static+len(ix.Accounts())+1)
	byKey := make(map[solana.PublicKey]*accountEntry, cap(entries))
	for i, k := range msg.AccountKeys {
		e := &accountEntry{key: k, old: i}
		if i < signed {
			e.signer = true
			e.writable = i < signed-int(h.NumReadonlySignedAccounts)
		} else {
			e.writable = i < static-int(h.NumReadonlyUnsignedAccounts)
		}
		entries = append(entries, e)
		byKey[k] = e
	}

	merge := func(k solana.PublicKey, signer, writable bool) {
		if e, ok := byKey[k]; ok {
			e.signer = e.signer || signer
			e.writable = e.writable || writable
			return
		}
		e := &accountEntry{key: k, signer: signer, writable: writable, old: -1}
		entries = append(entries, e)
		byKey[k] = e
	}
	for _, m := range ix.Accounts() {
		if m == nil {
			return fmt.Errorf("instruction has a nil account meta")
		}
		merge(m.PublicKey, m.IsSigner, m.IsWritable)
	}
	merge(ix.ProgramID(), false, false)

	if len(entries)+lookups > maxAccounts {
		return fmt.Errorf("instruction would raise account count to %d (limit %d)", len(entries)+lookups, maxAccounts)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].group() < entries[j].group()
	})

	oldToNew := make([]uint16, static)
	keys := make(solana.PublicKeySlice, len(entries))
	position := make(map[solana.PublicKey]uint16, len(entries))
	var header solana.MessageHeader
	for i, e := range entries {
		keys[i] = e.key
		position[e.key] = uint16(i)
		if e.old >= 0 {
			oldToNew[e.old] = uint16(i)
		}
		switch e.group() {
		case 0:
			header.NumRequiredSignatures++
		case 1:
			header.NumRequiredSignatures++
			header.NumReadonlySignedAccounts++
		case 3:
			header.NumReadonlyUnsignedAccounts++
		}
	}

	shift := len(entries) - static
	remap := func(idx uint16) (uint16, error) {
		switch {
		case int(idx) < static:
			return oldToNew[idx], nil
		case int(idx) < static+lookups:
			return uint16(int(idx) + shift), nil
		default:
			return 0, malformed(nil, "account index %d out of range", idx)
		}
	}

	instructions := make([]solana.CompiledInstruction, 0, len(msg.Instructions)+1)
	for i, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= static {
			return malformed(nil, "instruction %d program index %d out of range", i, ci.ProgramIDIndex)
		}
		out := solana.CompiledInstruction{
			ProgramIDIndex: oldToNew[ci.ProgramIDIndex],
			Accounts:       make([]uint16, len(ci.Accounts)),
			Data:           ci.Data,
		}
		for j, a := range ci.Accounts {
			if out.Accounts[j], err = remap(a); err != nil {
				return err
			}
		}
		instructions = append(instructions, out)
	}

	compiled := solana.CompiledInstruction{
		ProgramIDIndex: position[ix.ProgramID()],
		Accounts:       make([]uint16, len(ix.Accounts())),
		Data:           solana.Base58(data),
	}
	for j, m := range ix.Accounts() {
		compiled.Accounts[j] = position[m.PublicKey]
	}
	instructions = append(instructions, compiled)

	msg.AccountKeys = keys
	msg.Header = header
	msg.Instructions = instructions
	return nil
}
