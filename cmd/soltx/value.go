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
	"fmt"
	"math"
	"strconv"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// dataValue is one typed value from the encode directive grammar. Scalar
// kinds hold a run of values, since the grammar reads "u8 1 2 3" as a
// single directive.
type dataValue struct {
	kind    string
	bools   []bool
	uints   []uint64
	ints    []int64
	floats  []float64
	str     string
	maxLen  int
	pubkey  keys.Pubkey
	items   []dataValue
	tag     uint64
	hasTail bool
}

var scalarWidths = map[string]int{
	"u8": 1, "u16": 2, "u32": 4, "u64": 8,
	"i8": 1, "i16": 2, "i32": 4, "i64": 8,
}

func isValueTerminator(word string) bool {
	switch word {
	case "program", "bool", "u8", "u16", "u32", "u64",
		"i8", "i16", "i32", "i64", "f32", "f64",
		"string", "c_string", "pubkey", "vector", "struct",
		"enum", "some", "none", "]", "//":
		return true
	}
	return false
}

// readRun consumes value words until the next directive keyword
func readRun(
	wr *wordReader,
	consume func(word string) error,
) error {
	prefix := wr.next()
	count := 0
	for !wr.empty() && !isValueTerminator(wr.peek()) {
		if err := consume(wr.next()); err != nil {
			return err
		}
		count++
	}
	if count == 0 {
		return fmt.Errorf("empty list of values after %s", prefix)
	}
	return nil
}

func readBracketed(prefix string, wr *wordReader) ([]dataValue, error) {
	if wr.empty() {
		return nil, fmt.Errorf("the final %s parameter is incomplete", prefix)
	}
	if wr.next() != "[" {
		return nil, fmt.Errorf("expected [ after %s", prefix)
	}
	var items []dataValue
	for {
		if wr.empty() {
			return nil, fmt.Errorf(
				"the final %s parameter is incomplete",
				prefix,
			)
		}
		if wr.peek() == "]" {
			wr.next()
			break
		}
		item, err := readDataValue(wr)
		if err != nil {
			return nil, err
		}
		if item == nil {
			break
		}
		items = append(items, *item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty %s", prefix)
	}
	return items, nil
}

// readDataValue parses one directive. A nil value with nil error means the
// next word starts a new instruction rather than a data value.
func readDataValue(wr *wordReader) (*dataValue, error) {
	word := wr.peek()
	switch word {
	case "bool":
		v := &dataValue{kind: word}
		err := readRun(wr, func(w string) error {
			b, err := strconv.ParseBool(w)
			if err != nil {
				return fmt.Errorf("invalid bool value: %s", w)
			}
			v.bools = append(v.bools, b)
			return nil
		})
		return v, err
	case "u8", "u16", "u32", "u64":
		v := &dataValue{kind: word}
		bits := scalarWidths[word] * 8
		err := readRun(wr, func(w string) error {
			u, err := strconv.ParseUint(w, 10, bits)
			if err != nil {
				return fmt.Errorf("invalid %s value: %s", word, w)
			}
			v.uints = append(v.uints, u)
			return nil
		})
		return v, err
	case "i8", "i16", "i32", "i64":
		v := &dataValue{kind: word}
		bits := scalarWidths[word] * 8
		err := readRun(wr, func(w string) error {
			i, err := strconv.ParseInt(w, 10, bits)
			if err != nil {
				return fmt.Errorf("invalid %s value: %s", word, w)
			}
			v.ints = append(v.ints, i)
			return nil
		})
		return v, err
	case "f32", "f64":
		v := &dataValue{kind: word}
		bits := 32
		if word == "f64" {
			bits = 64
		}
		err := readRun(wr, func(w string) error {
			f, err := strconv.ParseFloat(w, bits)
			if err != nil {
				return fmt.Errorf("invalid %s value: %s", word, w)
			}
			v.floats = append(v.floats, f)
			return nil
		})
		return v, err
	case "string":
		wr.next()
		s, err := wr.stringValue()
		if err != nil {
			return nil, err
		}
		return &dataValue{kind: "string", str: s}, nil
	case "c_string":
		wr.next()
		if wr.empty() {
			return nil, fmt.Errorf(
				"the final c_string parameter is incomplete",
			)
		}
		lenWord := wr.next()
		maxLen, err := strconv.ParseUint(lenWord, 10, 16)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid max_length in c_string value: %s",
				lenWord,
			)
		}
		s, err := wr.stringValue()
		if err != nil {
			return nil, err
		}
		return &dataValue{
			kind:   "c_string",
			str:    s,
			maxLen: int(maxLen),
		}, nil
	case "pubkey":
		w, err := wr.singleValue()
		if err != nil {
			return nil, err
		}
		p, err := keys.ResolvePubkey(w)
		if err != nil {
			return nil, err
		}
		return &dataValue{kind: "pubkey", pubkey: p}, nil
	case "vector", "struct":
		wr.next()
		items, err := readBracketed(word, wr)
		if err != nil {
			return nil, err
		}
		return &dataValue{kind: word, items: items}, nil
	case "enum":
		wr.next()
		if wr.empty() {
			return nil, fmt.Errorf("the final enum parameter is incomplete")
		}
		tagWord := wr.next()
		tag, err := strconv.ParseUint(tagWord, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid enum index %s: %s",
				tagWord,
				err,
			)
		}
		v := &dataValue{kind: "enum", tag: tag}
		if !wr.empty() && wr.peek() == "[" {
			items, err := readBracketed("enum", wr)
			if err != nil {
				return nil, err
			}
			v.items = items
			v.hasTail = true
		}
		return v, nil
	case "some":
		wr.next()
		if wr.empty() {
			return nil, fmt.Errorf("the final some parameter is incomplete")
		}
		inner, err := readDataValue(wr)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, fmt.Errorf("the final some parameter is incomplete")
		}
		return &dataValue{
			kind:    "some",
			items:   []dataValue{*inner},
			hasTail: true,
		}, nil
	case "none":
		wr.next()
		return &dataValue{kind: "none"}, nil
	case "program":
		return nil, nil
	}
	return nil, fmt.Errorf("invalid data: %s", word)
}

// readDataValues parses directives until the next program keyword or the
// end of input
func readDataValues(wr *wordReader) ([]dataValue, error) {
	var out []dataValue
	for {
		if err := wr.skipComments(); err != nil {
			return nil, err
		}
		if wr.empty() {
			return out, nil
		}
		v, err := readDataValue(wr)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return out, nil
		}
		out = append(out, *v)
	}
}

// normalizeVector turns a vector holding a single scalar run into one
// element per scalar, so "vector [ u8 1 2 3 ]" has three elements
func normalizeVector(items []dataValue) []dataValue {
	if len(items) != 1 {
		return items
	}
	item := items[0]
	var out []dataValue
	switch item.kind {
	case "u8", "u16", "u32", "u64":
		for _, u := range item.uints {
			out = append(out, dataValue{kind: item.kind, uints: []uint64{u}})
		}
	case "i8", "i16", "i32", "i64":
		for _, i := range item.ints {
			out = append(out, dataValue{kind: item.kind, ints: []int64{i}})
		}
	case "f32", "f64":
		for _, f := range item.floats {
			out = append(out, dataValue{kind: item.kind, floats: []float64{f}})
		}
	default:
		return items
	}
	return out
}

// cAlignmentOf returns the C alignment requirement of a value
func cAlignmentOf(v *dataValue) int {
	switch v.kind {
	case "u16", "i16":
		return 2
	case "u32", "i32", "f32":
		return 4
	case "u64", "i64", "f64":
		return 8
	case "struct":
		return cMaxAlignment(v.items)
	case "enum":
		if v.hasTail {
			return cMaxAlignment(v.items)
		}
		return 1
	case "some":
		return cAlignmentOf(&v.items[0])
	}
	return 1
}

func cMaxAlignment(items []dataValue) int {
	maxAlign := 1
	for i := range items {
		if a := cAlignmentOf(&items[i]); a > maxAlign {
			maxAlign = a
		}
	}
	return maxAlign
}

// encodeInto appends the value to the encoder under its convention
func (v *dataValue) encodeInto(enc *bincodec.Encoder) error {
	conv := enc.Convention()
	switch v.kind {
	case "bool":
		for _, b := range v.bools {
			enc.PutBool(b)
		}
	case "u8", "u16", "u32", "u64":
		width := scalarWidths[v.kind]
		for _, u := range v.uints {
			if err := enc.PutUint(u, width); err != nil {
				return err
			}
		}
	case "i8", "i16", "i32", "i64":
		width := scalarWidths[v.kind]
		for _, i := range v.ints {
			if err := enc.PutInt(i, width); err != nil {
				return err
			}
		}
	case "f32":
		for _, f := range v.floats {
			enc.PutFloat32(float32(f))
		}
	case "f64":
		for _, f := range v.floats {
			enc.PutFloat64(f)
		}
	case "string":
		return enc.PutString(v.str)
	case "c_string":
		return enc.PutCString(v.str, v.maxLen)
	case "pubkey":
		enc.PutRaw(v.pubkey.Bytes())
	case "vector":
		if conv == bincodec.C {
			return bincodec.UnsupportedTypeError{
				Type:       "vector",
				Convention: conv,
			}
		}
		items := normalizeVector(v.items)
		if err := enc.PutSeqLen(len(items)); err != nil {
			return err
		}
		for i := range items {
			if err := items[i].encodeInto(enc); err != nil {
				return err
			}
		}
	case "struct":
		alignment := cMaxAlignment(v.items)
		enc.AlignStruct(alignment)
		for i := range v.items {
			if err := v.items[i].encodeInto(enc); err != nil {
				return err
			}
		}
		enc.AlignStruct(alignment)
	case "enum":
		maxTag := uint64(math.MaxUint32)
		if conv == bincodec.Borsh || conv == bincodec.C {
			maxTag = math.MaxUint8
		}
		if v.tag > maxTag {
			return bincodec.ValueOutOfRangeError{
				Value: v.tag,
				Type:  "enum index",
			}
		}
		if err := enc.PutEnumTag(uint32(v.tag)); err != nil {
			return err
		}
		if v.hasTail {
			body := dataValue{kind: "struct", items: v.items}
			return body.encodeInto(enc)
		}
	case "some":
		one := dataValue{kind: "enum", tag: 1, items: v.items, hasTail: true}
		return one.encodeInto(enc)
	case "none":
		zero := dataValue{kind: "enum", tag: 0}
		return zero.encodeInto(enc)
	}
	return nil
}

// seedBytes renders the value as raw seed bytes for address derivation:
// fixed-size little-endian scalars and unprefixed strings, matching how
// on-chain programs compose their seeds
func (v *dataValue) seedBytes() ([]byte, error) {
	switch v.kind {
	case "string":
		return []byte(v.str), nil
	case "vector":
		var out []byte
		for i := range v.items {
			b, err := v.items[i].seedBytes()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	}
	enc := bincodec.NewEncoder(bincodec.BincodeFixint)
	if err := v.encodeInto(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}
