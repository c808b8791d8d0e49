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
)

// MessageBytes returns the canonical serialized message: the header,
// account keys, blockhash and instructions. These are exactly the bytes
// that get signed.
func (t *Transaction) MessageBytes() ([]byte, error) {
	numRequired := t.NumRequiredSignatures()
	if numRequired > MaxSignatures {
		return nil, fmt.Errorf(
			"too many signed addresses: %d exceeds maximum of %d",
			numRequired,
			MaxSignatures,
		)
	}
	if numRequired == 0 {
		return nil, fmt.Errorf(
			"minimum signed address count of 1 required for fee payer",
		)
	}
	numAccounts := t.numAccounts()
	if numAccounts > MaxAccountKeys {
		return nil, fmt.Errorf(
			"too many account keys: %d exceeds maximum of %d",
			numAccounts,
			MaxAccountKeys,
		)
	}
	buf := make([]byte, 0, MaxTransactionSize)
	// Header
	buf = append(
		buf,
		byte(numRequired),
		byte(len(t.SignedReadonly)),
		byte(len(t.UnsignedReadonly)),
	)
	// Account keys as a compact-array
	buf = bincodec.AppendCompactU16(buf, uint16(numAccounts))
	for _, key := range t.AccountKeys() {
		buf = append(buf, key[:]...)
	}
	// Recent blockhash, zero-filled when not yet applied
	var blockhash Hash
	if t.Blockhash != nil {
		blockhash = *t.Blockhash
	}
	buf = append(buf, blockhash[:]...)
	// Instructions
	buf = bincodec.AppendCompactU16(buf, uint16(len(t.Instructions)))
	for _, in := range t.Instructions {
		programIndex, ok := t.keyIndex(in.ProgramID)
		if !ok {
			return nil, fmt.Errorf(
				"invalid transaction: program address %s not in account list",
				in.ProgramID,
			)
		}
		buf = append(buf, byte(programIndex))
		if len(in.Accounts) > MaxInstructionAccounts {
			return nil, fmt.Errorf(
				"too many accounts in instruction: %d exceeds maximum of %d",
				len(in.Accounts),
				MaxInstructionAccounts,
			)
		}
		buf = bincodec.AppendCompactU16(buf, uint16(len(in.Accounts)))
		for _, meta := range in.Accounts {
			index, ok := t.keyIndex(meta.Pubkey)
			if !ok {
				return nil, fmt.Errorf(
					"invalid transaction: address %s not in account list",
					meta.Pubkey,
				)
			}
			buf = append(buf, byte(index))
		}
		if len(in.Data) > MaxInstructionData {
			return nil, fmt.Errorf(
				"instruction data too long: %d exceeds maximum of %d",
				len(in.Data),
				MaxInstructionData,
			)
		}
		buf = bincodec.AppendCompactU16(buf, uint16(len(in.Data)))
		buf = append(buf, in.Data...)
	}
	return buf, nil
}

// MarshalBinary returns the full wire encoding: a compact-array of
// signature slots (zero-filled where unsigned) followed by the message
func (t *Transaction) MarshalBinary() ([]byte, error) {
	message, err := t.MessageBytes()
	if err != nil {
		return nil, err
	}
	numRequired := t.NumRequiredSignatures()
	buf := make([]byte, 0, MaxTransactionSize)
	buf = bincodec.AppendCompactU16(buf, uint16(numRequired))
	var empty Signature
	for _, slot := range t.SignedWritable {
		if slot.Signature != nil {
			buf = append(buf, slot.Signature[:]...)
		} else {
			buf = append(buf, empty[:]...)
		}
	}
	for _, slot := range t.SignedReadonly {
		if slot.Signature != nil {
			buf = append(buf, slot.Signature[:]...)
		} else {
			buf = append(buf, empty[:]...)
		}
	}
	buf = append(buf, message...)
	if len(buf) > MaxTransactionSize {
		return nil, fmt.Errorf(
			"transaction too large: %d exceeds maximum of %d bytes",
			len(buf),
			MaxTransactionSize,
		)
	}
	return buf, nil
}

// Encode writes the wire encoding to w
func (t *Transaction) Encode(w io.Writer) error {
	buf, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
