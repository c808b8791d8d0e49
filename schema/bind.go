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

package schema

import (
	"fmt"
	"math"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// Bound is a schema variant with every leaf field resolved to a normalized
// value, ready for encoding
type Bound struct {
	Schema  *Schema
	Variant *Variant
	Fields  map[string]any
}

// enumValue is the normalized form of a nested tagged-union value
type enumValue struct {
	variant *Variant
	fields  map[string]any
}

// Bind resolves the named values against the declared fields of the given
// instruction. Every leaf must be supplied (MissingInputError), values
// must match their declared types (TypeMismatchError), and extra names are
// rejected unless the schema sets AllowUnknown (UnknownFieldError).
func (s *Schema) Bind(
	instruction string,
	values map[string]any,
) (*Bound, error) {
	variant, ok := s.Instruction(instruction)
	if !ok {
		return nil, UnknownInstructionError{Name: instruction}
	}
	fields, err := s.bindFields(variant.Fields, values, variant.Name)
	if err != nil {
		return nil, err
	}
	return &Bound{Schema: s, Variant: variant, Fields: fields}, nil
}

func (s *Schema) bindFields(
	fields []Field,
	values map[string]any,
	path string,
) (map[string]any, error) {
	if !s.AllowUnknown {
		for name := range values {
			known := false
			for _, f := range fields {
				if f.Name == name {
					known = true
					break
				}
			}
			if !known {
				return nil, UnknownFieldError{Name: path + "." + name}
			}
		}
	}
	bound := make(map[string]any, len(fields))
	for _, f := range fields {
		fieldPath := path + "." + f.Name
		raw, ok := values[f.Name]
		if !ok {
			return nil, MissingInputError{Name: fieldPath}
		}
		value, err := s.normalize(f.Type, raw, fieldPath)
		if err != nil {
			return nil, err
		}
		bound[f.Name] = value
	}
	return bound, nil
}

func (s *Schema) normalize(t *Type, v any, path string) (any, error) {
	switch t.Kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, TypeMismatchError{Name: path, Want: "bool", Got: v}
		}
		return b, nil
	case KindU8, KindU16, KindU32, KindU64:
		u, ok := toUint64(v)
		if !ok {
			return nil, TypeMismatchError{
				Name: path,
				Want: t.Kind.String(),
				Got:  v,
			}
		}
		return u, nil
	case KindI8, KindI16, KindI32, KindI64:
		i, ok := toInt64(v)
		if !ok {
			return nil, TypeMismatchError{
				Name: path,
				Want: t.Kind.String(),
				Got:  v,
			}
		}
		return i, nil
	case KindF32, KindF64:
		f, ok := toFloat64(v)
		if !ok {
			return nil, TypeMismatchError{
				Name: path,
				Want: t.Kind.String(),
				Got:  v,
			}
		}
		return f, nil
	case KindString, KindCString:
		str, ok := v.(string)
		if !ok {
			return nil, TypeMismatchError{Name: path, Want: "string", Got: v}
		}
		return str, nil
	case KindPubkey:
		switch pk := v.(type) {
		case keys.Pubkey:
			return pk, nil
		case string:
			parsed, err := keys.ParsePubkey(pk)
			if err != nil {
				return nil, TypeMismatchError{
					Name: path,
					Want: "pubkey",
					Got:  v,
				}
			}
			return parsed, nil
		}
		return nil, TypeMismatchError{Name: path, Want: "pubkey", Got: v}
	case KindBytes:
		b, ok := toBytes(v)
		if !ok || len(b) != t.Max {
			return nil, TypeMismatchError{
				Name: path,
				Want: fmt.Sprintf("%d bytes", t.Max),
				Got:  v,
			}
		}
		return b, nil
	case KindVec:
		items, ok := v.([]any)
		if !ok {
			return nil, TypeMismatchError{Name: path, Want: "vec", Got: v}
		}
		out := make([]any, len(items))
		for i, item := range items {
			norm, err := s.normalize(
				t.Elem,
				item,
				fmt.Sprintf("%s[%d]", path, i),
			)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	case KindOption:
		if v == nil {
			return nil, nil
		}
		return s.normalize(t.Elem, v, path)
	case KindStruct:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, TypeMismatchError{Name: path, Want: "struct", Got: v}
		}
		return s.bindFields(t.Fields, m, path)
	case KindEnum:
		// A nested union value is a single-key map: variant name to its
		// field values
		m, ok := v.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, TypeMismatchError{
				Name: path,
				Want: "enum (single-key map)",
				Got:  v,
			}
		}
		for name, fieldValues := range m {
			var variant *Variant
			for i := range t.Variants {
				if t.Variants[i].Name == name {
					variant = &t.Variants[i]
					break
				}
			}
			if variant == nil {
				return nil, UnknownFieldError{Name: path + "." + name}
			}
			var fm map[string]any
			if fieldValues != nil {
				if fm, ok = fieldValues.(map[string]any); !ok {
					return nil, TypeMismatchError{
						Name: path + "." + name,
						Want: "struct",
						Got:  fieldValues,
					}
				}
			}
			fields, err := s.bindFields(
				variant.Fields,
				fm,
				path+"."+name,
			)
			if err != nil {
				return nil, err
			}
			return enumValue{variant: variant, fields: fields}, nil
		}
	}
	return nil, fmt.Errorf("unhandled type kind %s at %s", t.Kind, path)
}

// Encode serializes the bound value tree under the schema's convention,
// emitting the instruction discriminant first
func (b *Bound) Encode() ([]byte, error) {
	enc := bincodec.NewEncoder(b.Schema.Convention)
	if err := enc.PutEnumTag(b.Variant.Tag); err != nil {
		return nil, err
	}
	if err := encodeFields(enc, b.Variant.Fields, b.Fields); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func encodeFields(
	enc *bincodec.Encoder,
	fields []Field,
	values map[string]any,
) error {
	align := cMaxAlignment(fields)
	enc.AlignStruct(align)
	for _, f := range fields {
		if err := encodeValue(enc, f.Type, values[f.Name]); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	enc.AlignStruct(align)
	return nil
}

func encodeValue(enc *bincodec.Encoder, t *Type, v any) error {
	switch t.Kind {
	case KindBool:
		enc.PutBool(v.(bool))
		return nil
	case KindU8, KindU16, KindU32, KindU64:
		return enc.PutUint(v.(uint64), uintWidths[t.Kind])
	case KindI8, KindI16, KindI32, KindI64:
		return enc.PutInt(v.(int64), intWidths[t.Kind])
	case KindF32:
		enc.PutFloat32(float32(v.(float64)))
		return nil
	case KindF64:
		enc.PutFloat64(v.(float64))
		return nil
	case KindString:
		return enc.PutString(v.(string))
	case KindCString:
		return enc.PutCString(v.(string), t.Max)
	case KindPubkey:
		pk := v.(keys.Pubkey)
		enc.PutRaw(pk[:])
		return nil
	case KindBytes:
		enc.PutRaw(v.([]byte))
		return nil
	case KindVec:
		items := v.([]any)
		if err := enc.PutSeqLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := encodeValue(enc, t.Elem, item); err != nil {
				return err
			}
		}
		return nil
	case KindOption:
		if v == nil {
			return enc.PutEnumTag(0)
		}
		if err := enc.PutEnumTag(1); err != nil {
			return err
		}
		return encodeValue(enc, t.Elem, v)
	case KindStruct:
		return encodeFields(enc, t.Fields, v.(map[string]any))
	case KindEnum:
		ev := v.(enumValue)
		if err := enc.PutEnumTag(ev.variant.Tag); err != nil {
			return err
		}
		if len(ev.variant.Fields) > 0 {
			return encodeFields(enc, ev.variant.Fields, ev.fields)
		}
		return nil
	}
	return fmt.Errorf("unhandled type kind %s", t.Kind)
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		// JSON numbers arrive as float64
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint64 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		out := make([]byte, len(b))
		copy(out, b)
		return out, true
	case []any:
		out := make([]byte, len(b))
		for i, item := range b {
			u, ok := toUint64(item)
			if !ok || u > math.MaxUint8 {
				return nil, false
			}
			out[i] = byte(u)
		}
		return out, true
	}
	return nil, false
}
