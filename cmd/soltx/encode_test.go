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

package main

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsOf(s string) []string {
	var words []string
	for _, field := range strings.Fields(s) {
		words = append(words, makeWords(field)...)
	}
	return words
}

func TestMakeWords(t *testing.T) {
	testDefs := []struct {
		input    string
		expected []string
	}{
		{input: "plain", expected: []string{"plain"}},
		{input: "[", expected: []string{"["}},
		{input: "[u8", expected: []string{"[", "u8"}},
		{input: "3]", expected: []string{"3", "]"}},
		{input: "[1]", expected: []string{"[", "1", "]"}},
		{input: "]]", expected: []string{"]", "]"}},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, makeWords(testDef.input))
	}
}

func TestSkipComments(t *testing.T) {
	wr := &wordReader{words: wordsOf("// a comment // u8 7")}
	require.NoError(t, wr.skipComments())
	assert.Equal(t, []string{"u8", "7"}, wr.words)

	wr = &wordReader{words: wordsOf("// never closed")}
	require.Error(t, wr.skipComments())
}

func TestStringValueQuoted(t *testing.T) {
	wr := &wordReader{words: wordsOf(`"hello world" u8`)}
	s, err := wr.stringValue()
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)
	assert.Equal(t, []string{"u8"}, wr.words)

	wr = &wordReader{words: []string{`bare`}}
	s, err = wr.stringValue()
	require.NoError(t, err)
	assert.Equal(t, "bare", s)

	wr = &wordReader{words: []string{`"unterminated`}}
	_, err = wr.stringValue()
	require.Error(t, err)
}

func encodeValues(t *testing.T, conv bincodec.Convention, directive string) []byte {
	t.Helper()
	wr := &wordReader{words: wordsOf(directive)}
	values, err := readDataValues(wr)
	require.NoError(t, err)
	require.True(t, wr.empty())
	enc := bincodec.NewEncoder(conv)
	for i := range values {
		require.NoError(t, values[i].encodeInto(enc))
	}
	return enc.Bytes()
}

func TestDataValueEncoding(t *testing.T) {
	testDefs := []struct {
		conv      bincodec.Convention
		directive string
		expected  string
	}{
		{
			conv:      bincodec.BincodeVarint,
			directive: "u8 1 2 3",
			expected:  "010203",
		},
		{
			conv:      bincodec.BincodeVarint,
			directive: "u64 5000",
			expected:  "fb8813",
		},
		{
			conv:      bincodec.BincodeFixint,
			directive: "u64 5000",
			expected:  "8813000000000000",
		},
		{
			conv:      bincodec.Borsh,
			directive: "string abc",
			expected:  "03000000616263",
		},
		{
			conv:      bincodec.BincodeVarint,
			directive: "vector [ u8 1 2 3 ]",
			expected:  "03010203",
		},
		{
			conv:      bincodec.Borsh,
			directive: "vector [ u16 1 2 ]",
			expected:  "0200000001000200",
		},
		{
			conv:      bincodec.Borsh,
			directive: "enum 2 [ u64 5000 ]",
			expected:  "028813000000000000",
		},
		{
			conv:      bincodec.BincodeVarint,
			directive: "enum 2",
			expected:  "02",
		},
		{
			conv:      bincodec.Borsh,
			directive: "some u8 7",
			expected:  "0107",
		},
		{
			conv:      bincodec.Borsh,
			directive: "none",
			expected:  "00",
		},
		{
			conv:      bincodec.BincodeVarint,
			directive: "c_string 8 hi",
			expected:  "6869000000000000",
		},
		{
			conv:      bincodec.C,
			directive: "u8 1 u32 2",
			expected:  "0100000002000000",
		},
		{
			conv:      bincodec.C,
			directive: "struct [ u8 1 u16 2 ]",
			expected:  "01000200",
		},
	}
	for _, testDef := range testDefs {
		got := encodeValues(t, testDef.conv, testDef.directive)
		assert.Equal(
			t,
			testDef.expected,
			hex.EncodeToString(got),
			"directive %q under %s",
			testDef.directive,
			testDef.conv,
		)
	}
}

func TestDataValueErrors(t *testing.T) {
	testDefs := []string{
		"u8",
		"u8 256",
		"i8 junk",
		"bool maybe",
		"vector [ ]",
		"vector [ u8 1",
		"c_string 1 toolong",
		"enum junk",
		"some",
		"mystery 1",
	}
	for _, directive := range testDefs {
		wr := &wordReader{words: wordsOf(directive)}
		values, err := readDataValues(wr)
		if err != nil {
			continue
		}
		enc := bincodec.NewEncoder(bincodec.BincodeVarint)
		failed := false
		for i := range values {
			if values[i].encodeInto(enc) != nil {
				failed = true
			}
		}
		assert.True(t, failed, "directive %q must fail", directive)
	}
}

func TestCEncodingRejectsStringsAndVectors(t *testing.T) {
	for _, directive := range []string{"string abc", "vector [ u8 1 ]"} {
		wr := &wordReader{words: wordsOf(directive)}
		values, err := readDataValues(wr)
		require.NoError(t, err)
		enc := bincodec.NewEncoder(bincodec.C)
		var encodeErr error
		for i := range values {
			if err := values[i].encodeInto(enc); err != nil {
				encodeErr = err
			}
		}
		require.Error(t, encodeErr)
		assert.ErrorAs(t, encodeErr, &bincodec.UnsupportedTypeError{})
	}
}

func TestBuildTransaction(t *testing.T) {
	feePayer := keys.Pubkey{0x11}
	program := keys.Pubkey{0x33}
	dest := keys.Pubkey{0x22}

	directive := strings.Join([]string{
		"encoding rust_bincode_varint",
		"fee_payer " + feePayer.String(),
		"// transfer some lamports //",
		"program " + program.String(),
		"account " + feePayer.String() + " ws",
		"account " + dest.String() + " w",
		"enum 2 [ u64 5000 ]",
	}, " ")

	built, err := buildTransaction(wordsOf(directive))
	require.NoError(t, err)
	require.Len(t, built.Instructions, 1)
	assert.Equal(t, program, built.Instructions[0].ProgramID)
	assert.Equal(
		t,
		[]byte{0x02, 0xfb, 0x88, 0x13},
		built.Instructions[0].Data,
	)
	require.Len(t, built.SignedWritable, 1)
	assert.Equal(t, feePayer, built.SignedWritable[0].Pubkey)
	assert.Equal(t, []keys.Pubkey{dest}, built.UnsignedWritable)
	assert.Equal(t, []keys.Pubkey{program}, built.UnsignedReadonly)
}

func TestBuildTransactionErrors(t *testing.T) {
	testDefs := []struct {
		directive string
		expected  string
	}{
		{directive: "", expected: "no encode parameters"},
		{directive: "encoding sideways", expected: "invalid encoding"},
		{
			directive: "encoding rust_borsh",
			expected:  "missing fee payer",
		},
		{
			directive: "program " + keys.Pubkey{0x33}.String(),
			expected:  "expected fee_payer",
		},
		{
			directive: "fee_payer " + keys.Pubkey{0x11}.String() + " u8 3",
			expected:  "expected to be program",
		},
	}
	for _, testDef := range testDefs {
		_, err := buildTransaction(wordsOf(testDef.directive))
		require.Error(t, err, "directive %q", testDef.directive)
		assert.Contains(t, err.Error(), testDef.expected)
	}
}

func TestSeedBytes(t *testing.T) {
	wr := &wordReader{words: wordsOf(
		"string metadata pubkey " + keys.Pubkey{0x44}.String() + " u16 770",
	)}
	values, err := readDataValues(wr)
	require.NoError(t, err)
	require.Len(t, values, 3)

	seed, err := values[0].seedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("metadata"), seed)

	seed, err = values[1].seedBytes()
	require.NoError(t, err)
	assert.Equal(t, keys.Pubkey{0x44}.Bytes(), seed)

	seed, err = values[2].seedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x03}, seed)
}
