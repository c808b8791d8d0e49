// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tx models Solana transactions: assembly from account directives,
// the canonical wire encoding and its inverse, and signature handling.
//
// A transaction's account keys are kept partitioned into the four canonical
// groups the message header describes, in order: writable signers, readonly
// signers, writable non-signers, readonly non-signers. Keys are unique
// across the groups; adding a key that is already present merges its
// writable/signer flags by promotion rather than duplicating it.
package tx

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/jinzhu/copier"

	"github.com/blinklabs-io/soltx/keys"
)

// Transaction size limits derived from the requirement that a serialized
// transaction fit a single IPv4 UDP packet (1232 bytes of payload)
const (
	MaxTransactionSize = 1232

	// (1232 - (4 + 32 + 1) - 1) / 64
	MaxSignatures = 18

	// (1232 - (1 + 32 + 1) - 4) / 32
	MaxAccountKeys = 37

	// (1232 - (1 + 4 + 32) - (1 + 1 + 2 + 1))
	MaxInstructionAccounts = 1190

	// (1232 - (1 + 4 + 32) - 1) - 2
	MaxInstructionData = 1192
)

// SignatureSize is the size of an Ed25519 signature in bytes
const SignatureSize = 64

// HashSize is the size of a blockhash in bytes
const HashSize = 32

// Hash is a 32-byte recent blockhash
type Hash [HashSize]byte

// String returns the base58 text form of the hash
func (h Hash) String() string {
	return base58.Encode(h[:])
}

// ParseHash decodes a base58-encoded blockhash
func ParseHash(s string) (Hash, error) {
	var h Hash
	decoded := base58.Decode(s)
	if len(decoded) != HashSize {
		return h, fmt.Errorf("invalid blockhash: %s", s)
	}
	copy(h[:], decoded)
	return h, nil
}

// Signature is a 64-byte Ed25519 signature
type Signature [SignatureSize]byte

// String returns the base58 text form of the signature
func (s Signature) String() string {
	return base58.Encode(s[:])
}

// ParseSignature decodes a base58-encoded signature
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	decoded := base58.Decode(s)
	if len(decoded) != SignatureSize {
		return sig, fmt.Errorf("invalid signature: %s", s)
	}
	copy(sig[:], decoded)
	return sig, nil
}

// AccountMeta is one account directive for an instruction: a key plus the
// access it needs
type AccountMeta struct {
	Pubkey   keys.Pubkey
	Signer   bool
	Writable bool
}

// SignerSlot pairs a required signer's key with its signature, nil until
// the slot is filled
type SignerSlot struct {
	Pubkey    keys.Pubkey
	Signature *Signature
}

// Instruction references a program, the accounts it touches, and its
// opaque data bytes
type Instruction struct {
	ProgramID keys.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// Transaction is a Solana transaction held in its partitioned form. The
// first writable signer is the fee payer.
type Transaction struct {
	SignedWritable   []SignerSlot
	SignedReadonly   []SignerSlot
	UnsignedWritable []keys.Pubkey
	UnsignedReadonly []keys.Pubkey
	Blockhash        *Hash
	Instructions     []Instruction
}

// New creates a transaction with the given fee payer seeded as the first
// writable signer
func New(feePayer keys.Pubkey) *Transaction {
	return &Transaction{
		SignedWritable: []SignerSlot{{Pubkey: feePayer}},
	}
}

// Assemble builds a single-instruction transaction: the fee payer, one
// program, its account directives and instruction data, with an optional
// recent blockhash
func Assemble(
	feePayer keys.Pubkey,
	programID keys.Pubkey,
	accounts []AccountMeta,
	data []byte,
	blockhash *Hash,
) *Transaction {
	t := New(feePayer)
	t.AddInstruction(Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	})
	if blockhash != nil {
		t.SetBlockhash(*blockhash)
	}
	return t
}

// AddInstruction appends an instruction, merging its account directives
// into the partitioned key list. The program id is registered after the
// directive accounts, so when both land in the same group the directive
// accounts keep their first-seen position ahead of the program.
func (t *Transaction) AddInstruction(in Instruction) {
	for _, meta := range in.Accounts {
		t.addKey(meta.Pubkey, meta.Signer, meta.Writable)
	}
	t.addKey(in.ProgramID, false, false)
	t.Instructions = append(t.Instructions, in)
}

// group identifies one of the four partitioned account groups
type group uint8

const (
	groupSignedWritable group = iota
	groupSignedReadonly
	groupUnsignedWritable
	groupUnsignedReadonly
	groupNone
)

func (t *Transaction) findKey(p keys.Pubkey) (group, int) {
	for i, s := range t.SignedWritable {
		if s.Pubkey == p {
			return groupSignedWritable, i
		}
	}
	for i, s := range t.SignedReadonly {
		if s.Pubkey == p {
			return groupSignedReadonly, i
		}
	}
	for i, k := range t.UnsignedWritable {
		if k == p {
			return groupUnsignedWritable, i
		}
	}
	for i, k := range t.UnsignedReadonly {
		if k == p {
			return groupUnsignedReadonly, i
		}
	}
	return groupNone, 0
}

// addKey inserts or promotes a key so that its flags are the OR of every
// directive seen for it. Promotion preserves first-seen order within the
// destination group; an existing signature survives a writability change.
func (t *Transaction) addKey(p keys.Pubkey, signer bool, writable bool) {
	existing, idx := t.findKey(p)
	if existing == groupNone {
		t.insertKey(p, nil, signer, writable)
		return
	}
	curSigner := existing == groupSignedWritable ||
		existing == groupSignedReadonly
	curWritable := existing == groupSignedWritable ||
		existing == groupUnsignedWritable
	newSigner := curSigner || signer
	newWritable := curWritable || writable
	if newSigner == curSigner && newWritable == curWritable {
		return
	}
	var sig *Signature
	switch existing {
	case groupSignedWritable:
		sig = t.SignedWritable[idx].Signature
		t.SignedWritable = append(
			t.SignedWritable[:idx],
			t.SignedWritable[idx+1:]...,
		)
	case groupSignedReadonly:
		sig = t.SignedReadonly[idx].Signature
		t.SignedReadonly = append(
			t.SignedReadonly[:idx],
			t.SignedReadonly[idx+1:]...,
		)
	case groupUnsignedWritable:
		t.UnsignedWritable = append(
			t.UnsignedWritable[:idx],
			t.UnsignedWritable[idx+1:]...,
		)
	case groupUnsignedReadonly:
		t.UnsignedReadonly = append(
			t.UnsignedReadonly[:idx],
			t.UnsignedReadonly[idx+1:]...,
		)
	}
	t.insertKey(p, sig, newSigner, newWritable)
}

func (t *Transaction) insertKey(
	p keys.Pubkey,
	sig *Signature,
	signer bool,
	writable bool,
) {
	switch {
	case signer && writable:
		t.SignedWritable = append(
			t.SignedWritable,
			SignerSlot{Pubkey: p, Signature: sig},
		)
	case signer:
		t.SignedReadonly = append(
			t.SignedReadonly,
			SignerSlot{Pubkey: p, Signature: sig},
		)
	case writable:
		t.UnsignedWritable = append(t.UnsignedWritable, p)
	default:
		t.UnsignedReadonly = append(t.UnsignedReadonly, p)
	}
}

// AccountKeys returns the canonical ordered key list: writable signers,
// readonly signers, writable non-signers, readonly non-signers
func (t *Transaction) AccountKeys() []keys.Pubkey {
	out := make([]keys.Pubkey, 0, t.numAccounts())
	for _, s := range t.SignedWritable {
		out = append(out, s.Pubkey)
	}
	for _, s := range t.SignedReadonly {
		out = append(out, s.Pubkey)
	}
	out = append(out, t.UnsignedWritable...)
	out = append(out, t.UnsignedReadonly...)
	return out
}

func (t *Transaction) numAccounts() int {
	return len(t.SignedWritable) + len(t.SignedReadonly) +
		len(t.UnsignedWritable) + len(t.UnsignedReadonly)
}

// NumRequiredSignatures returns the message header's required signer count
func (t *Transaction) NumRequiredSignatures() int {
	return len(t.SignedWritable) + len(t.SignedReadonly)
}

// keyIndex returns the canonical index of a key, searched across all four
// groups irrespective of permissions
func (t *Transaction) keyIndex(p keys.Pubkey) (int, bool) {
	g, idx := t.findKey(p)
	switch g {
	case groupSignedWritable:
		return idx, true
	case groupSignedReadonly:
		return len(t.SignedWritable) + idx, true
	case groupUnsignedWritable:
		return len(t.SignedWritable) + len(t.SignedReadonly) + idx, true
	case groupUnsignedReadonly:
		return len(t.SignedWritable) + len(t.SignedReadonly) +
			len(t.UnsignedWritable) + idx, true
	}
	return 0, false
}

// keyAt resolves a canonical index to its key and flags
func (t *Transaction) keyAt(index int) (keys.Pubkey, bool, bool, bool) {
	if index < len(t.SignedWritable) {
		return t.SignedWritable[index].Pubkey, true, true, true
	}
	index -= len(t.SignedWritable)
	if index < len(t.SignedReadonly) {
		return t.SignedReadonly[index].Pubkey, true, false, true
	}
	index -= len(t.SignedReadonly)
	if index < len(t.UnsignedWritable) {
		return t.UnsignedWritable[index], false, true, true
	}
	index -= len(t.UnsignedWritable)
	if index < len(t.UnsignedReadonly) {
		return t.UnsignedReadonly[index], false, false, true
	}
	return keys.Pubkey{}, false, false, false
}

// SetBlockhash replaces the recent blockhash. A changed hash clears every
// signature, since the message bytes they signed are no longer the
// message that will be submitted.
func (t *Transaction) SetBlockhash(h Hash) {
	if t.Blockhash != nil && *t.Blockhash == h {
		return
	}
	t.Blockhash = &h
	for i := range t.SignedWritable {
		t.SignedWritable[i].Signature = nil
	}
	for i := range t.SignedReadonly {
		t.SignedReadonly[i].Signature = nil
	}
}

// Copy returns a deep copy of the transaction
func (t *Transaction) Copy() (*Transaction, error) {
	var out Transaction
	if err := copier.CopyWithOption(
		&out,
		t,
		copier.Option{DeepCopy: true},
	); err != nil {
		return nil, err
	}
	// copier materializes nil slices as empty ones; restore nil so a
	// copy compares equal to its source
	if t.SignedWritable == nil {
		out.SignedWritable = nil
	}
	if t.SignedReadonly == nil {
		out.SignedReadonly = nil
	}
	if t.UnsignedWritable == nil {
		out.UnsignedWritable = nil
	}
	if t.UnsignedReadonly == nil {
		out.UnsignedReadonly = nil
	}
	if t.Instructions == nil {
		out.Instructions = nil
		return &out, nil
	}
	for i := range t.Instructions {
		if t.Instructions[i].Accounts == nil {
			out.Instructions[i].Accounts = nil
		}
		if t.Instructions[i].Data == nil {
			out.Instructions[i].Data = nil
		}
	}
	return &out, nil
}
