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

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// Decoded is the JSON-like value tree recovered from instruction data
type Decoded struct {
	// Instruction is the name of the matched variant
	Instruction string
	// Fields maps field names to decoded values
	Fields map[string]any
}

// Decode interprets data against the schema, matching the leading
// discriminant to a declared instruction and decoding its fields
// recursively. It returns the decoded tree and the number of bytes
// consumed; errors identify the failing field and byte offset.
func (s *Schema) Decode(data []byte) (*Decoded, int, error) {
	dec := bincodec.NewDecoder(s.Convention, data)
	tag, err := dec.EnumTag()
	if err != nil {
		return nil, dec.Offset(), err
	}
	variant, ok := s.variantByTag(tag)
	if !ok {
		return nil, dec.Offset(), UnknownVariantError{Tag: tag, Offset: 0}
	}
	fields, err := s.decodeFields(dec, variant.Fields, variant.Name)
	if err != nil {
		return nil, dec.Offset(), err
	}
	return &Decoded{
		Instruction: variant.Name,
		Fields:      fields,
	}, dec.Offset(), nil
}

func (s *Schema) decodeFields(
	dec *bincodec.Decoder,
	fields []Field,
	path string,
) (map[string]any, error) {
	align := cMaxAlignment(fields)
	if err := dec.AlignStruct(align); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		value, err := s.decodeValue(dec, f.Type, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = value
	}
	if err := dec.AlignStruct(align); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Schema) decodeValue(
	dec *bincodec.Decoder,
	t *Type,
	path string,
) (any, error) {
	fail := func(err error) (any, error) {
		return nil, fmt.Errorf(
			"decoding %s at offset %d: %w",
			path,
			dec.Offset(),
			err,
		)
	}
	switch t.Kind {
	case KindBool:
		v, err := dec.Bool()
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindU8, KindU16, KindU32, KindU64:
		v, err := dec.Uint(uintWidths[t.Kind])
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindI8, KindI16, KindI32, KindI64:
		v, err := dec.Int(intWidths[t.Kind])
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindF32:
		v, err := dec.Float32()
		if err != nil {
			return fail(err)
		}
		return float64(v), nil
	case KindF64:
		v, err := dec.Float64()
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindString:
		v, err := dec.String()
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindCString:
		v, err := dec.CString(t.Max)
		if err != nil {
			return fail(err)
		}
		return v, nil
	case KindPubkey:
		b, err := dec.Raw(keys.PubkeySize)
		if err != nil {
			return fail(err)
		}
		pk, err := keys.PubkeyFromBytes(b)
		if err != nil {
			return fail(err)
		}
		return pk, nil
	case KindBytes:
		b, err := dec.Raw(t.Max)
		if err != nil {
			return fail(err)
		}
		return b, nil
	case KindVec:
		n, err := dec.SeqLen()
		if err != nil {
			return fail(err)
		}
		items := make([]any, n)
		for i := 0; i < n; i++ {
			item, err := s.decodeValue(
				dec,
				t.Elem,
				fmt.Sprintf("%s[%d]", path, i),
			)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case KindOption:
		tag, err := dec.EnumTag()
		if err != nil {
			return fail(err)
		}
		switch tag {
		case 0:
			return nil, nil
		case 1:
			return s.decodeValue(dec, t.Elem, path)
		}
		return fail(UnknownVariantError{Tag: tag, Offset: dec.Offset()})
	case KindStruct:
		return s.decodeFields(dec, t.Fields, path)
	case KindEnum:
		tagOffset := dec.Offset()
		tag, err := dec.EnumTag()
		if err != nil {
			return fail(err)
		}
		var variant *Variant
		for i := range t.Variants {
			if t.Variants[i].Tag == tag {
				variant = &t.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, fmt.Errorf(
				"decoding %s: %w",
				path,
				UnknownVariantError{Tag: tag, Offset: tagOffset},
			)
		}
		fields, err := s.decodeFields(
			dec,
			variant.Fields,
			path+"."+variant.Name,
		)
		if err != nil {
			return nil, err
		}
		return map[string]any{variant.Name: fields}, nil
	}
	return fail(fmt.Errorf("unhandled type kind %s", t.Kind))
}
