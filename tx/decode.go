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

package tx

import (
	"fmt"
	"io"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// txReader tracks the byte offset while consuming a transaction from an
// io.Reader, so truncation errors can report where the input ended
type txReader struct {
	r   io.Reader
	off int
}

func (tr *txReader) read(buf []byte) error {
	n, err := io.ReadFull(tr.r, buf)
	tr.off += n
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return bincodec.TruncatedError{
			Offset: tr.off,
			Want:   len(buf),
			Have:   n,
		}
	}
	return err
}

func (tr *txReader) compactU16() (uint16, error) {
	var value uint32
	buf := make([]byte, 1)
	for i := 0; i < bincodec.MaxCompactU16Len; i++ {
		if err := tr.read(buf); err != nil {
			return 0, err
		}
		value |= uint32(buf[0]&0x7f) << (7 * i)
		if buf[0]&0x80 == 0 {
			if value > 0xffff {
				return 0, bincodec.ValueOutOfRangeError{
					Value: value,
					Type:  "compact-u16",
				}
			}
			return uint16(value), nil
		}
	}
	return 0, fmt.Errorf(
		"compact-u16 encoding longer than %d bytes",
		bincodec.MaxCompactU16Len,
	)
}

// Decode reads one transaction from r, leaving the reader positioned
// immediately after it
func Decode(r io.Reader) (*Transaction, error) {
	tr := &txReader{r: r}

	sigCount, err := tr.compactU16()
	if err != nil {
		return nil, err
	}
	if sigCount > MaxSignatures {
		return nil, fmt.Errorf(
			"too many signatures in transaction: expected at most %d, got %d",
			MaxSignatures,
			sigCount,
		)
	}
	// A zero-filled slot means the signature has not been provided
	sigs := make([]*Signature, sigCount)
	var empty Signature
	for i := range sigs {
		var sig Signature
		if err := tr.read(sig[:]); err != nil {
			return nil, err
		}
		if sig != empty {
			sigs[i] = &sig
		}
	}

	header := make([]byte, 3)
	if err := tr.read(header); err != nil {
		return nil, err
	}
	numRequired := int(header[0])
	numSignedReadonly := int(header[1])
	numUnsignedReadonly := int(header[2])
	if numRequired > MaxAccountKeys {
		return nil, fmt.Errorf(
			"too many signed addresses: expected at most %d, got %d",
			MaxAccountKeys,
			numRequired,
		)
	}
	// Our encoder emits one slot per required signer; other encoders may
	// emit a shorter in-order list, but never a longer one
	if int(sigCount) > numRequired {
		return nil, fmt.Errorf(
			"too many signatures supplied: expected at most %d, got %d",
			numRequired,
			sigCount,
		)
	}
	if numSignedReadonly > numRequired {
		return nil, fmt.Errorf(
			"too many signed readonly addresses: expected at most %d, got %d",
			numRequired,
			numSignedReadonly,
		)
	}
	numSignedWritable := numRequired - numSignedReadonly
	if numSignedWritable == 0 {
		return nil, fmt.Errorf(
			"minimum signed address count of 1 required for fee payer",
		)
	}

	keyCount, err := tr.compactU16()
	if err != nil {
		return nil, err
	}
	if keyCount > MaxAccountKeys {
		return nil, fmt.Errorf(
			"too many account keys: expected at most %d, got %d",
			MaxAccountKeys,
			keyCount,
		)
	}
	minKeys := numRequired + numUnsignedReadonly
	if int(keyCount) < minKeys {
		return nil, fmt.Errorf(
			"too few account keys: %d supplied but at least %d required by header",
			keyCount,
			minKeys,
		)
	}
	numUnsignedWritable := int(keyCount) - minKeys

	t := &Transaction{}
	readKey := func() (keys.Pubkey, error) {
		var p keys.Pubkey
		err := tr.read(p[:])
		return p, err
	}
	for i := 0; i < numSignedWritable; i++ {
		p, err := readKey()
		if err != nil {
			return nil, err
		}
		var sig *Signature
		if i < len(sigs) {
			sig = sigs[i]
		}
		t.SignedWritable = append(
			t.SignedWritable,
			SignerSlot{Pubkey: p, Signature: sig},
		)
	}
	for i := 0; i < numSignedReadonly; i++ {
		p, err := readKey()
		if err != nil {
			return nil, err
		}
		var sig *Signature
		if numSignedWritable+i < len(sigs) {
			sig = sigs[numSignedWritable+i]
		}
		t.SignedReadonly = append(
			t.SignedReadonly,
			SignerSlot{Pubkey: p, Signature: sig},
		)
	}
	for n := 0; n < numUnsignedWritable; n++ {
		p, err := readKey()
		if err != nil {
			return nil, err
		}
		t.UnsignedWritable = append(t.UnsignedWritable, p)
	}
	for n := 0; n < numUnsignedReadonly; n++ {
		p, err := readKey()
		if err != nil {
			return nil, err
		}
		t.UnsignedReadonly = append(t.UnsignedReadonly, p)
	}

	var blockhash Hash
	if err := tr.read(blockhash[:]); err != nil {
		return nil, err
	}
	if blockhash != (Hash{}) {
		t.Blockhash = &blockhash
	}

	instrCount, err := tr.compactU16()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 1)
	for i := 0; i < int(instrCount); i++ {
		if err := tr.read(buf); err != nil {
			return nil, err
		}
		programID, _, _, ok := t.keyAt(int(buf[0]))
		if !ok {
			return nil, fmt.Errorf(
				"invalid program id index %d for instruction %d",
				buf[0],
				i,
			)
		}
		accountCount, err := tr.compactU16()
		if err != nil {
			return nil, err
		}
		if accountCount > MaxInstructionAccounts {
			return nil, fmt.Errorf(
				"too many accounts in instruction %d: expected at most %d, got %d",
				i,
				MaxInstructionAccounts,
				accountCount,
			)
		}
		var accounts []AccountMeta
		for n := 0; n < int(accountCount); n++ {
			if err := tr.read(buf); err != nil {
				return nil, err
			}
			p, signer, writable, ok := t.keyAt(int(buf[0]))
			if !ok {
				return nil, fmt.Errorf(
					"invalid account index %d referenced from instruction %d",
					buf[0],
					i,
				)
			}
			accounts = append(accounts, AccountMeta{
				Pubkey:   p,
				Signer:   signer,
				Writable: writable,
			})
		}
		dataCount, err := tr.compactU16()
		if err != nil {
			return nil, err
		}
		if dataCount > MaxInstructionData {
			return nil, fmt.Errorf(
				"too many data bytes in instruction %d: expected at most %d, got %d",
				i,
				MaxInstructionData,
				dataCount,
			)
		}
		data := make([]byte, dataCount)
		if err := tr.read(data); err != nil {
			return nil, err
		}
		t.Instructions = append(t.Instructions, Instruction{
			ProgramID: programID,
			Accounts:  accounts,
			Data:      data,
		})
	}
	return t, nil
}

// Parse decodes a transaction from a byte slice and requires the slice to
// contain exactly one transaction, failing with TrailingBytesError when
// bytes remain
func Parse(data []byte) (*Transaction, error) {
	r := &sliceReader{data: data}
	t, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if r.off < len(data) {
		return nil, bincodec.TrailingBytesError{
			Offset:    r.off,
			Remaining: len(data) - r.off,
		}
	}
	return t, nil
}

type sliceReader struct {
	data []byte
	off  int
}

func (sr *sliceReader) Read(p []byte) (int, error) {
	if sr.off >= len(sr.data) {
		return 0, io.EOF
	}
	n := copy(p, sr.data[sr.off:])
	sr.off += n
	return n, nil
}
