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

// Package schema interprets data-driven descriptions of instruction data
// layouts. A schema is a tree of type descriptors loaded from a JSON file
// and interpreted uniformly at encode and decode time, so arbitrary
// program layouts can be supported without code generation.
//
// The root of every schema is a tagged union of named instructions, keyed
// by a discriminant encoded per the schema's convention. Values are bound
// to leaf fields by name, encoded depth-first, and decoded back into a
// JSON-like value tree.
package schema

import (
	"fmt"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// Kind identifies a type descriptor node
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindCString
	KindPubkey
	KindBytes
	KindVec
	KindOption
	KindStruct
	KindEnum
)

var kindNames = map[Kind]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindI8:      "i8",
	KindI16:     "i16",
	KindI32:     "i32",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindString:  "string",
	KindCString: "c_string",
	KindPubkey:  "pubkey",
	KindBytes:   "bytes",
	KindVec:     "vec",
	KindOption:  "option",
	KindStruct:  "struct",
	KindEnum:    "enum",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", k)
}

// Type is one node in a schema's descriptor tree
type Type struct {
	Kind Kind
	// Max is the fixed size for KindCString and KindBytes
	Max int
	// Elem is the element type for KindVec and KindOption
	Elem *Type
	// Fields are the members of a KindStruct
	Fields []Field
	// Variants are the members of a KindEnum
	Variants []Variant
}

// Field is a named member of a struct or variant
type Field struct {
	Name string
	Type *Type
}

// Variant is one arm of a tagged union, selected by its discriminant Tag
type Variant struct {
	Name   string
	Tag    uint32
	Fields []Field
}

// Schema describes the instruction data layout for a single program
type Schema struct {
	// Name identifies the schema in diagnostics
	Name string
	// ProgramID is the program whose instructions this schema describes
	ProgramID keys.Pubkey
	// Convention selects the integer/length encoding for all fields
	Convention bincodec.Convention
	// Instructions are the tagged variants of the root union
	Instructions []Variant
	// AllowUnknown accepts extra names at bind time instead of rejecting
	AllowUnknown bool
}

// Instruction returns the named instruction variant, if declared
func (s *Schema) Instruction(name string) (*Variant, bool) {
	for i := range s.Instructions {
		if s.Instructions[i].Name == name {
			return &s.Instructions[i], true
		}
	}
	return nil, false
}

func (s *Schema) variantByTag(tag uint32) (*Variant, bool) {
	for i := range s.Instructions {
		if s.Instructions[i].Tag == tag {
			return &s.Instructions[i], true
		}
	}
	return nil, false
}

// uintWidths maps unsigned scalar kinds to their byte width
var uintWidths = map[Kind]int{
	KindU8:  1,
	KindU16: 2,
	KindU32: 4,
	KindU64: 8,
}

// intWidths maps signed scalar kinds to their byte width
var intWidths = map[Kind]int{
	KindI8:  1,
	KindI16: 2,
	KindI32: 4,
	KindI64: 8,
}

// cAlignment returns the natural alignment of a type under the C layout,
// the maximum member alignment for aggregates
func cAlignment(t *Type) int {
	switch t.Kind {
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindStruct:
		return cMaxAlignment(t.Fields)
	case KindOption:
		return cAlignment(t.Elem)
	case KindEnum:
		align := 1
		for _, v := range t.Variants {
			if a := cMaxAlignment(v.Fields); a > align {
				align = a
			}
		}
		return align
	default:
		return 1
	}
}

func cMaxAlignment(fields []Field) int {
	align := 1
	for _, f := range fields {
		if a := cAlignment(f.Type); a > align {
			align = a
		}
	}
	return align
}
