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

package bincodec

import (
	"encoding/binary"
	"math"
)

// Markers for bincode's magnitude-based varint encoding
const (
	varintU16Marker = 0xfb
	varintU32Marker = 0xfc
	varintU64Marker = 0xfd
)

var uintMax = map[int]uint64{
	1: math.MaxUint8,
	2: math.MaxUint16,
	4: math.MaxUint32,
	8: math.MaxUint64,
}

var intMin = map[int]int64{
	1: math.MinInt8,
	2: math.MinInt16,
	4: math.MinInt32,
	8: math.MinInt64,
}

var intMax = map[int]int64{
	1: math.MaxInt8,
	2: math.MaxInt16,
	4: math.MaxInt32,
	8: math.MaxInt64,
}

func uintTypeName(width int) string {
	switch width {
	case 1:
		return "u8"
	case 2:
		return "u16"
	case 4:
		return "u32"
	}
	return "u64"
}

func intTypeName(width int) string {
	switch width {
	case 1:
		return "i8"
	case 2:
		return "i16"
	case 4:
		return "i32"
	}
	return "i64"
}

// Encoder accumulates values encoded under a single Convention. The zero
// value is not usable; construct with NewEncoder.
type Encoder struct {
	conv Convention
	buf  []byte
}

func NewEncoder(conv Convention) *Encoder {
	return &Encoder{conv: conv}
}

func (e *Encoder) Convention() Convention {
	return e.conv
}

// Bytes returns the encoded output accumulated so far
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the current output length in bytes
func (e *Encoder) Len() int {
	return len(e.buf)
}

// align pads the output with zero bytes until its length is a multiple of n.
// Only meaningful under the C convention; a no-op for the others.
func (e *Encoder) align(n int) {
	if e.conv != C || n <= 1 {
		return
	}
	for len(e.buf)%n != 0 {
		e.buf = append(e.buf, 0)
	}
}

// AlignStruct pads to the given alignment before (and after) a C struct's
// members, mirroring the C compiler's layout rules
func (e *Encoder) AlignStruct(n int) {
	e.align(n)
}

func (e *Encoder) putFixedUint(v uint64, width int) {
	switch width {
	case 1:
		e.buf = append(e.buf, byte(v))
	case 2:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(v))
	case 4:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
	default:
		e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	}
}

func (e *Encoder) putVarUint(v uint64) {
	switch {
	case v < uint64(varintU16Marker):
		e.buf = append(e.buf, byte(v))
	case v <= math.MaxUint16:
		e.buf = append(e.buf, varintU16Marker)
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(v))
	case v <= math.MaxUint32:
		e.buf = append(e.buf, varintU32Marker)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
	default:
		e.buf = append(e.buf, varintU64Marker)
		e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	}
}

// PutBool encodes a boolean as a single 0/1 byte under all conventions
func (e *Encoder) PutBool(b bool) {
	if b {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

// PutUint encodes an unsigned integer of the given width (1, 2, 4 or 8
// bytes). Values that do not fit the width fail with ValueOutOfRangeError.
func (e *Encoder) PutUint(v uint64, width int) error {
	if v > uintMax[width] {
		return ValueOutOfRangeError{Value: v, Type: uintTypeName(width)}
	}
	if width == 1 {
		// Single bytes are never varint-encoded
		e.buf = append(e.buf, byte(v))
		return nil
	}
	if e.conv == BincodeVarint {
		e.putVarUint(v)
		return nil
	}
	e.align(width)
	e.putFixedUint(v, width)
	return nil
}

// PutInt encodes a signed integer of the given width. Under the bincode
// varint mode values are zigzag-mapped before varint encoding.
func (e *Encoder) PutInt(v int64, width int) error {
	if v < intMin[width] || v > intMax[width] {
		return ValueOutOfRangeError{
			Value: v,
			Type:  intTypeName(width),
		}
	}
	if width == 1 {
		e.buf = append(e.buf, byte(v))
		return nil
	}
	if e.conv == BincodeVarint {
		// Zigzag: interleave positive and negative values
		e.putVarUint(uint64((v << 1) ^ (v >> 63)))
		return nil
	}
	e.align(width)
	e.putFixedUint(uint64(v), width)
	return nil
}

// PutFloat32 encodes an IEEE 754 single as 4 little-endian bytes. Floats
// are never varint-encoded.
func (e *Encoder) PutFloat32(f float32) {
	e.align(4)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(f))
}

// PutFloat64 encodes an IEEE 754 double as 8 little-endian bytes
func (e *Encoder) PutFloat64(f float64) {
	e.align(8)
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(f))
}

// PutRaw appends bytes with no length prefix or alignment, used for
// pubkeys and fixed-size byte arrays
func (e *Encoder) PutRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

// PutString encodes a length-prefixed UTF-8 string. Not representable
// under the C convention.
func (e *Encoder) PutString(s string) error {
	switch e.conv {
	case C:
		return UnsupportedTypeError{Type: "string", Convention: e.conv}
	case Borsh:
		if len(s) > math.MaxUint32 {
			return ValueOutOfRangeError{Value: uint64(len(s)), Type: "u32"}
		}
		e.putFixedUint(uint64(len(s)), 4)
	case BincodeVarint:
		e.putVarUint(uint64(len(s)))
	default:
		e.putFixedUint(uint64(len(s)), 8)
	}
	e.buf = append(e.buf, s...)
	return nil
}

// PutCString encodes a string as raw bytes zero-padded to maxLen, the
// fixed-size char array convention. Identical under all conventions.
func (e *Encoder) PutCString(s string, maxLen int) error {
	if len(s) > maxLen {
		return ValueOutOfRangeError{
			Value: uint64(len(s)),
			Type:  "c_string",
		}
	}
	e.buf = append(e.buf, s...)
	for i := len(s); i < maxLen; i++ {
		e.buf = append(e.buf, 0)
	}
	return nil
}

// PutSeqLen encodes a sequence length prefix
func (e *Encoder) PutSeqLen(n int) error {
	switch e.conv {
	case C:
		return UnsupportedTypeError{Type: "vector", Convention: e.conv}
	case Borsh:
		if uint64(n) > math.MaxUint32 {
			return ValueOutOfRangeError{Value: uint64(n), Type: "u32"}
		}
		e.putFixedUint(uint64(n), 4)
	case BincodeVarint:
		e.putVarUint(uint64(n))
	default:
		e.putFixedUint(uint64(n), 8)
	}
	return nil
}

// PutEnumTag encodes an enum discriminant: u32 under both bincode modes,
// u8 under borsh and C
func (e *Encoder) PutEnumTag(tag uint32) error {
	if e.conv == Borsh || e.conv == C {
		if tag > math.MaxUint8 {
			return ValueOutOfRangeError{Value: uint64(tag), Type: "u8"}
		}
		e.buf = append(e.buf, byte(tag))
		return nil
	}
	return e.PutUint(uint64(tag), 4)
}
