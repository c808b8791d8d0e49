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

package tx_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
	"github.com/blinklabs-io/soltx/schema"
	"github.com/blinklabs-io/soltx/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeypair(t *testing.T, fill byte) *keys.Keypair {
	t.Helper()
	seed := bytes.Repeat([]byte{fill}, 32)
	kp, err := keys.NewKeypairFromSeed(seed)
	require.NoError(t, err)
	return kp
}

func testPubkey(fill byte) keys.Pubkey {
	var p keys.Pubkey
	for i := range p {
		p[i] = fill
	}
	return p
}

func testBlockhash(fill byte) tx.Hash {
	var h tx.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}

func TestAssembleDedupesFeePayer(t *testing.T) {
	feePayer := testPubkey(0x11)
	dest := testPubkey(0x22)
	program := testPubkey(0x33)

	// The fee payer also appears as the instruction's source account;
	// it must occupy a single writable-signer slot
	built := tx.Assemble(
		feePayer,
		program,
		[]tx.AccountMeta{
			{Pubkey: feePayer, Signer: true, Writable: true},
			{Pubkey: dest, Writable: true},
		},
		[]byte{0x02, 0x00, 0x00, 0x00},
		nil,
	)

	assert.Equal(t, 1, built.NumRequiredSignatures())
	require.Len(t, built.SignedWritable, 1)
	assert.Equal(t, feePayer, built.SignedWritable[0].Pubkey)
	assert.Empty(t, built.SignedReadonly)
	assert.Equal(t, []keys.Pubkey{dest}, built.UnsignedWritable)
	assert.Equal(t, []keys.Pubkey{program}, built.UnsignedReadonly)

	allKeys := built.AccountKeys()
	require.Len(t, allKeys, 3)
	assert.Equal(t, program, allKeys[2], "program id must sort last")

	message, err := built.MessageBytes()
	require.NoError(t, err)
	// header: 1 required signature, 0 readonly signed, 1 readonly unsigned
	assert.Equal(t, []byte{0x01, 0x00, 0x01}, message[:3])
	assert.Equal(t, byte(0x03), message[3], "compact-u16 key count")
}

func TestAddInstructionPromotesKeys(t *testing.T) {
	feePayer := testPubkey(0x11)
	program := testPubkey(0x33)
	shared := testPubkey(0x44)

	built := tx.New(feePayer)
	built.AddInstruction(tx.Instruction{
		ProgramID: program,
		Accounts: []tx.AccountMeta{
			{Pubkey: shared},
		},
		Data: []byte{0x01},
	})
	require.Equal(t, []keys.Pubkey{shared, program}, built.UnsignedReadonly)

	// A later instruction needs the same key as a writable signer; it must
	// move groups rather than appear twice
	built.AddInstruction(tx.Instruction{
		ProgramID: program,
		Accounts: []tx.AccountMeta{
			{Pubkey: shared, Signer: true, Writable: true},
		},
		Data: []byte{0x02},
	})

	allKeys := built.AccountKeys()
	seen := map[keys.Pubkey]int{}
	for _, k := range allKeys {
		seen[k]++
	}
	assert.Equal(t, 1, seen[shared])
	require.Len(t, built.SignedWritable, 2)
	assert.Equal(t, shared, built.SignedWritable[1].Pubkey)
	assert.Equal(t, 2, built.NumRequiredSignatures())
}

func TestWireRoundTrip(t *testing.T) {
	payerKp := testKeypair(t, 0x51)
	otherKp := testKeypair(t, 0x52)
	program := testPubkey(0x33)
	dest := testPubkey(0x22)
	blockhash := testBlockhash(0xab)

	built := tx.New(payerKp.Pubkey())
	built.AddInstruction(tx.Instruction{
		ProgramID: program,
		Accounts: []tx.AccountMeta{
			{Pubkey: payerKp.Pubkey(), Signer: true, Writable: true},
			{Pubkey: otherKp.Pubkey(), Signer: true},
			{Pubkey: dest, Writable: true},
		},
		Data: []byte{0x02, 0xfb, 0x88, 0x13},
	})
	built.SetBlockhash(blockhash)
	require.NoError(t, built.Sign(payerKp))
	require.NoError(t, built.Sign(otherKp))
	assert.Empty(t, built.UnsignedSigners())

	wire, err := built.MarshalBinary()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(wire), tx.MaxTransactionSize)

	parsed, err := tx.Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, built, parsed)

	rewire, err := parsed.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, wire, rewire)
}

func TestUnsignedRoundTrip(t *testing.T) {
	feePayer := testPubkey(0x11)
	program := testPubkey(0x33)

	built := tx.Assemble(
		feePayer,
		program,
		nil,
		[]byte{0x01, 0x02},
		nil,
	)

	wire, err := built.MarshalBinary()
	require.NoError(t, err)

	parsed, err := tx.Parse(wire)
	require.NoError(t, err)
	assert.Nil(t, parsed.Blockhash)
	require.Len(t, parsed.SignedWritable, 1)
	assert.Nil(t, parsed.SignedWritable[0].Signature)
	assert.Equal(t, built, parsed)
}

func TestParseTruncated(t *testing.T) {
	built := tx.Assemble(
		testPubkey(0x11),
		testPubkey(0x33),
		[]tx.AccountMeta{{Pubkey: testPubkey(0x22), Writable: true}},
		[]byte{0x01, 0x02, 0x03},
		nil,
	)
	wire, err := built.MarshalBinary()
	require.NoError(t, err)

	for _, cut := range []int{1, 64, 70, len(wire) - 1} {
		t.Run(fmt.Sprintf("cut_%d", cut), func(t *testing.T) {
			_, err := tx.Parse(wire[:cut])
			require.Error(t, err)
			assert.ErrorAs(t, err, &bincodec.TruncatedError{})
		})
	}
}

func TestParseTrailingBytes(t *testing.T) {
	built := tx.Assemble(
		testPubkey(0x11),
		testPubkey(0x33),
		nil,
		[]byte{0x01},
		nil,
	)
	wire, err := built.MarshalBinary()
	require.NoError(t, err)

	_, err = tx.Parse(append(wire, 0x00))
	require.Error(t, err)
	assert.ErrorAs(t, err, &bincodec.TrailingBytesError{})
}

func TestSignIsIdempotentForNonSigners(t *testing.T) {
	payerKp := testKeypair(t, 0x51)
	strangerKp := testKeypair(t, 0x52)
	built := tx.Assemble(
		payerKp.Pubkey(),
		testPubkey(0x33),
		nil,
		[]byte{0x01},
		nil,
	)
	blockhash := testBlockhash(0xcd)
	built.SetBlockhash(blockhash)

	require.NoError(t, built.Sign(strangerKp))
	assert.Equal(
		t,
		[]keys.Pubkey{payerKp.Pubkey()},
		built.UnsignedSigners(),
	)

	require.NoError(t, built.Sign(payerKp))
	assert.Empty(t, built.UnsignedSigners())

	first, err := built.SignatureFor(payerKp.Pubkey())
	require.NoError(t, err)
	require.NoError(t, built.Sign(payerKp))
	second, err := built.SignatureFor(payerKp.Pubkey())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = built.SignatureFor(strangerKp.Pubkey())
	require.Error(t, err)
	var notSigner tx.NotASignerError
	require.ErrorAs(t, err, &notSigner)
	assert.Equal(t, strangerKp.Pubkey(), notSigner.Pubkey)
}

func TestSetBlockhashClearsSignatures(t *testing.T) {
	payerKp := testKeypair(t, 0x51)
	built := tx.Assemble(
		payerKp.Pubkey(),
		testPubkey(0x33),
		nil,
		[]byte{0x01},
		nil,
	)
	built.SetBlockhash(testBlockhash(0x01))
	require.NoError(t, built.Sign(payerKp))
	require.Empty(t, built.UnsignedSigners())

	// Re-applying the same hash keeps the signatures
	built.SetBlockhash(testBlockhash(0x01))
	assert.Empty(t, built.UnsignedSigners())

	built.SetBlockhash(testBlockhash(0x02))
	assert.Equal(
		t,
		[]keys.Pubkey{payerKp.Pubkey()},
		built.UnsignedSigners(),
	)
}

func TestCopyIsIndependent(t *testing.T) {
	payerKp := testKeypair(t, 0x51)
	built := tx.Assemble(
		payerKp.Pubkey(),
		testPubkey(0x33),
		[]tx.AccountMeta{{Pubkey: testPubkey(0x22), Writable: true}},
		[]byte{0x01, 0x02},
		nil,
	)
	built.SetBlockhash(testBlockhash(0x0f))
	require.NoError(t, built.Sign(payerKp))

	dup, err := built.Copy()
	require.NoError(t, err)
	assert.Equal(t, built, dup)

	dup.SetBlockhash(testBlockhash(0xf0))
	dup.Instructions[0].Data[0] = 0xff

	assert.Equal(t, testBlockhash(0x0f), *built.Blockhash)
	assert.Equal(t, byte(0x01), built.Instructions[0].Data[0])
	assert.NotNil(t, built.SignedWritable[0].Signature)
}

func TestCopyKeepsUnusedGroupsNil(t *testing.T) {
	built := tx.New(testPubkey(0x11))
	dup, err := built.Copy()
	require.NoError(t, err)
	assert.Equal(t, built, dup)
	assert.Nil(t, dup.SignedReadonly)
	assert.Nil(t, dup.UnsignedWritable)
	assert.Nil(t, dup.UnsignedReadonly)
	assert.Nil(t, dup.Instructions)

	built.AddInstruction(tx.Instruction{ProgramID: testPubkey(0x33)})
	dup, err = built.Copy()
	require.NoError(t, err)
	assert.Equal(t, built, dup)
	assert.Nil(t, dup.Instructions[0].Accounts)
	assert.Nil(t, dup.Instructions[0].Data)
}

func TestSignatureTooLarge(t *testing.T) {
	built := tx.New(testPubkey(0x11))
	for i := 1; i < 20; i++ {
		built.AddInstruction(tx.Instruction{
			ProgramID: testPubkey(0x33),
			Accounts: []tx.AccountMeta{
				{Pubkey: testPubkey(byte(0x40 + i)), Signer: true},
			},
		})
	}
	_, err := built.MarshalBinary()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many signed addresses")
}

func TestSummary(t *testing.T) {
	payerKp := testKeypair(t, 0x51)
	program := testPubkey(0x33)
	dest := testPubkey(0x22)

	schemaJSON := fmt.Appendf(nil, `{
		"name": "token",
		"program_id": %q,
		"encoding": "rust_borsh",
		"instructions": [
			{
				"name": "transfer",
				"tag": 2,
				"fields": [
					{"name": "lamports", "type": "u64"}
				]
			}
		]
	}`, program)
	tokenSchema, err := schema.Load(schemaJSON)
	require.NoError(t, err)
	registry := schema.NewRegistry(tokenSchema)

	built := tx.Assemble(
		payerKp.Pubkey(),
		program,
		[]tx.AccountMeta{
			{Pubkey: payerKp.Pubkey(), Signer: true, Writable: true},
			{Pubkey: dest, Writable: true},
		},
		[]byte{0x02, 0x88, 0x13, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		nil,
	)
	built.SetBlockhash(testBlockhash(0xee))
	require.NoError(t, built.Sign(payerKp))

	summary := built.Summary(registry.Lookup)

	addresses, ok := summary["addresses"].([]any)
	require.True(t, ok)
	require.Len(t, addresses, 3)
	first, ok := addresses[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, payerKp.Pubkey().String(), first["address"])
	assert.Equal(t, true, first["fee_payer"])
	assert.Equal(t, true, first["is_signed"])
	assert.NotContains(t, first, "has_signature")

	assert.Equal(t, testBlockhash(0xee).String(), summary["recent_blockhash"])

	instructions, ok := summary["instructions"].([]any)
	require.True(t, ok)
	require.Len(t, instructions, 1)
	entry, ok := instructions[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, program.String(), entry["program_id"])

	decoded, ok := entry["decoded"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "transfer", decoded["instruction"])
	fields, ok := decoded["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, uint64(5000), fields["lamports"])
}

func TestSummaryWithoutSchema(t *testing.T) {
	built := tx.Assemble(
		testPubkey(0x11),
		testPubkey(0x33),
		nil,
		[]byte{0x01, 0x02},
		nil,
	)
	summary := built.Summary(nil)
	instructions, ok := summary["instructions"].([]any)
	require.True(t, ok)
	entry, ok := instructions[0].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, entry, "decoded")
	assert.Equal(t, []any{1, 2}, entry["data"])
	assert.NotContains(t, summary, "recent_blockhash")
}
