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

// Decoder consumes values encoded under a single Convention from a byte
// buffer, tracking the offset for diagnostics
type Decoder struct {
	conv Convention
	data []byte
	off  int
}

func NewDecoder(conv Convention, data []byte) *Decoder {
	return &Decoder{conv: conv, data: data}
}

func (d *Decoder) Convention() Convention {
	return d.conv
}

// Offset returns the number of bytes consumed so far
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of bytes not yet consumed
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

// Trailing returns a TrailingBytesError if any input remains, nil otherwise
func (d *Decoder) Trailing() error {
	if d.Remaining() > 0 {
		return TrailingBytesError{Offset: d.off, Remaining: d.Remaining()}
	}
	return nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, TruncatedError{
			Offset: d.off,
			Want:   n,
			Have:   d.Remaining(),
		}
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

// align skips the padding bytes a C encoder would have inserted
func (d *Decoder) align(n int) error {
	if d.conv != C || n <= 1 {
		return nil
	}
	for d.off%n != 0 {
		if _, err := d.take(1); err != nil {
			return err
		}
	}
	return nil
}

// AlignStruct skips padding before a C struct's members
func (d *Decoder) AlignStruct(n int) error {
	return d.align(n)
}

func (d *Decoder) fixedUint(width int) (uint64, error) {
	b, err := d.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		return binary.LittleEndian.Uint64(b), nil
	}
}

func (d *Decoder) varUint() (uint64, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	switch b[0] {
	case varintU16Marker:
		return d.fixedUint(2)
	case varintU32Marker:
		return d.fixedUint(4)
	case varintU64Marker:
		return d.fixedUint(8)
	default:
		return uint64(b[0]), nil
	}
}

// Bool decodes a single 0/1 byte
func (d *Decoder) Bool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// Uint decodes an unsigned integer of the given width (1, 2, 4 or 8 bytes)
func (d *Decoder) Uint(width int) (uint64, error) {
	if width == 1 {
		return d.fixedUint(1)
	}
	if d.conv == BincodeVarint {
		v, err := d.varUint()
		if err != nil {
			return 0, err
		}
		if v > uintMax[width] {
			return 0, ValueOutOfRangeError{
				Value: v,
				Type:  uintTypeName(width),
			}
		}
		return v, nil
	}
	if err := d.align(width); err != nil {
		return 0, err
	}
	return d.fixedUint(width)
}

// Int decodes a signed integer of the given width
func (d *Decoder) Int(width int) (int64, error) {
	if width == 1 {
		v, err := d.fixedUint(1)
		if err != nil {
			return 0, err
		}
		return int64(int8(v)), nil
	}
	if d.conv == BincodeVarint {
		u, err := d.varUint()
		if err != nil {
			return 0, err
		}
		// Reverse the zigzag mapping
		v := int64(u>>1) ^ -int64(u&1)
		if v < intMin[width] || v > intMax[width] {
			return 0, ValueOutOfRangeError{
				Value: v,
				Type:  intTypeName(width),
			}
		}
		return v, nil
	}
	if err := d.align(width); err != nil {
		return 0, err
	}
	u, err := d.fixedUint(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// Float32 decodes an IEEE 754 single
func (d *Decoder) Float32() (float32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	u, err := d.fixedUint(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(u)), nil
}

// Float64 decodes an IEEE 754 double
func (d *Decoder) Float64() (float64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	u, err := d.fixedUint(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// Raw decodes n bytes with no length prefix, returning a copy
func (d *Decoder) Raw(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String decodes a length-prefixed UTF-8 string
func (d *Decoder) String() (string, error) {
	var n uint64
	var err error
	switch d.conv {
	case C:
		return "", UnsupportedTypeError{Type: "string", Convention: d.conv}
	case Borsh:
		n, err = d.fixedUint(4)
	case BincodeVarint:
		n, err = d.varUint()
	default:
		n, err = d.fixedUint(8)
	}
	if err != nil {
		return "", err
	}
	if n > uint64(d.Remaining()) {
		return "", TruncatedError{
			Offset: d.off,
			Want:   int(min(n, math.MaxInt32)),
			Have:   d.Remaining(),
		}
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CString decodes a zero-padded fixed-size char array, trimming the padding
func (d *Decoder) CString(maxLen int) (string, error) {
	b, err := d.take(maxLen)
	if err != nil {
		return "", err
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), nil
}

// SeqLen decodes a sequence length prefix
func (d *Decoder) SeqLen() (int, error) {
	var n uint64
	var err error
	switch d.conv {
	case C:
		return 0, UnsupportedTypeError{Type: "vector", Convention: d.conv}
	case Borsh:
		n, err = d.fixedUint(4)
	case BincodeVarint:
		n, err = d.varUint()
	default:
		n, err = d.fixedUint(8)
	}
	if err != nil {
		return 0, err
	}
	if n > uint64(d.Remaining()) {
		// A sequence length cannot exceed the bytes left to decode
		return 0, TruncatedError{
			Offset: d.off,
			Want:   int(min(n, math.MaxInt32)),
			Have:   d.Remaining(),
		}
	}
	return int(n), nil
}

// EnumTag decodes an enum discriminant
func (d *Decoder) EnumTag() (uint32, error) {
	if d.conv == Borsh || d.conv == C {
		v, err := d.fixedUint(1)
		return uint32(v), err
	}
	v, err := d.Uint(4)
	return uint32(v), err
}
