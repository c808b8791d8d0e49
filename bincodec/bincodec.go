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

// Package bincodec implements the primitive binary encodings used by Solana
// program instruction data: Rust bincode (in both its varint and fixint
// integer modes), Borsh, and C-style aligned layout. It also provides the
// compact-u16 ("shortvec") length encoding used throughout the transaction
// wire format.
//
// All multi-byte integers are little-endian. The four conventions differ in
// how they encode integer widths, sequence lengths and enum discriminants:
//
//   - BincodeVarint: integers wider than one byte use bincode's
//     magnitude-based varint (single byte below 251, then 0xFB+u16,
//     0xFC+u32, 0xFD+u64); signed values are zigzag-mapped first.
//     Sequence lengths are varint u64, enum discriminants varint u32.
//   - BincodeFixint: integers at their natural fixed width, sequence
//     lengths as u64, enum discriminants as u32.
//   - Borsh: integers at fixed width, sequence lengths and string lengths
//     as u32, enum discriminants as u8.
//   - C: integers at fixed width with natural alignment padding, enum
//     discriminants as u8. Strings and sequences are not representable.
package bincodec

import "fmt"

// Convention selects one of the supported instruction data encodings.
type Convention uint8

const (
	BincodeVarint Convention = iota
	BincodeFixint
	Borsh
	C
)

func (c Convention) String() string {
	switch c {
	case BincodeVarint:
		return "rust_bincode_varint"
	case BincodeFixint:
		return "rust_bincode_fixedint"
	case Borsh:
		return "rust_borsh"
	case C:
		return "c"
	}
	return fmt.Sprintf("unknown (%d)", c)
}

// ParseConvention maps the conventional command-line/schema-file names to a
// Convention
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "rust_bincode_varint":
		return BincodeVarint, nil
	case "rust_bincode_fixedint":
		return BincodeFixint, nil
	case "rust_borsh":
		return Borsh, nil
	case "c":
		return C, nil
	}
	return 0, fmt.Errorf("invalid encoding: %s", s)
}

// MaxCompactU16Len is the maximum encoded size of a compact-u16 value
const MaxCompactU16Len = 3

// AppendCompactU16 appends the compact-u16 encoding of v to buf and returns
// the extended buffer. The encoding stores 7 bits per byte, low bits first,
// with the high bit of each byte indicating continuation.
func AppendCompactU16(buf []byte, v uint16) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// DecodeCompactU16 decodes a compact-u16 value from the start of data,
// returning the value and the number of bytes consumed
func DecodeCompactU16(data []byte) (uint16, int, error) {
	var value uint32
	for i := 0; i < MaxCompactU16Len; i++ {
		if i >= len(data) {
			return 0, 0, TruncatedError{Offset: len(data), Want: i + 1, Have: len(data)}
		}
		b := data[i]
		value |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, 0, ValueOutOfRangeError{Value: uint64(value), Type: "compact-u16"}
			}
			return uint16(value), i + 1, nil
		}
	}
	// The third byte carries the top 2 bits only and must not continue
	return 0, 0, fmt.Errorf(
		"compact-u16 encoding longer than %d bytes",
		MaxCompactU16Len,
	)
}
