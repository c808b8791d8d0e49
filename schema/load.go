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
	"encoding/json"
	"fmt"
	"os"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
)

// JSON file representation of a schema document
type schemaFile struct {
	Name         string        `json:"name"`
	ProgramID    string        `json:"program_id"`
	Encoding     string        `json:"encoding"`
	AllowUnknown bool          `json:"allow_unknown"`
	Instructions []variantFile `json:"instructions"`
}

type variantFile struct {
	Name   string      `json:"name"`
	Tag    uint32      `json:"tag"`
	Fields []fieldFile `json:"fields"`
}

type fieldFile struct {
	Name string   `json:"name"`
	Type typeFile `json:"type"`
}

// typeFile is either a scalar type name string or a single-key object for
// parameterized types
type typeFile struct {
	t *Type
}

var scalarKinds = map[string]Kind{
	"bool":   KindBool,
	"u8":     KindU8,
	"u16":    KindU16,
	"u32":    KindU32,
	"u64":    KindU64,
	"i8":     KindI8,
	"i16":    KindI16,
	"i32":    KindI32,
	"i64":    KindI64,
	"f32":    KindF32,
	"f64":    KindF64,
	"string": KindString,
	"pubkey": KindPubkey,
}

func (tf *typeFile) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		kind, ok := scalarKinds[name]
		if !ok {
			return fmt.Errorf("unknown type name %q", name)
		}
		tf.t = &Type{Kind: kind}
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid type descriptor: %s", data)
	}
	if len(obj) != 1 {
		return fmt.Errorf(
			"type descriptor must have exactly one key: %s",
			data,
		)
	}
	for key, raw := range obj {
		switch key {
		case "c_string", "bytes":
			var size int
			if err := json.Unmarshal(raw, &size); err != nil {
				return fmt.Errorf("invalid %s size: %s", key, raw)
			}
			if size <= 0 {
				return fmt.Errorf("invalid %s size: %d", key, size)
			}
			kind := KindCString
			if key == "bytes" {
				kind = KindBytes
			}
			tf.t = &Type{Kind: kind, Max: size}
		case "vec", "option":
			var elem typeFile
			if err := json.Unmarshal(raw, &elem); err != nil {
				return err
			}
			kind := KindVec
			if key == "option" {
				kind = KindOption
			}
			tf.t = &Type{Kind: kind, Elem: elem.t}
		case "struct":
			var fields []fieldFile
			if err := json.Unmarshal(raw, &fields); err != nil {
				return err
			}
			tf.t = &Type{Kind: KindStruct, Fields: convertFields(fields)}
		case "enum":
			var variants []variantFile
			if err := json.Unmarshal(raw, &variants); err != nil {
				return err
			}
			tf.t = &Type{
				Kind:     KindEnum,
				Variants: convertVariants(variants),
			}
		default:
			return fmt.Errorf("unknown type constructor %q", key)
		}
	}
	return nil
}

func convertFields(files []fieldFile) []Field {
	fields := make([]Field, len(files))
	for i, f := range files {
		fields[i] = Field{Name: f.Name, Type: f.Type.t}
	}
	return fields
}

func convertVariants(files []variantFile) []Variant {
	variants := make([]Variant, len(files))
	for i, v := range files {
		variants[i] = Variant{
			Name:   v.Name,
			Tag:    v.Tag,
			Fields: convertFields(v.Fields),
		}
	}
	return variants
}

// Load parses a JSON schema document
func Load(data []byte) (*Schema, error) {
	var file schemaFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("schema document missing name")
	}
	programID, err := keys.ParsePubkey(file.ProgramID)
	if err != nil {
		return nil, fmt.Errorf(
			"schema %s: invalid program_id: %w",
			file.Name,
			err,
		)
	}
	conv := bincodec.BincodeVarint
	if file.Encoding != "" {
		if conv, err = bincodec.ParseConvention(file.Encoding); err != nil {
			return nil, fmt.Errorf("schema %s: %w", file.Name, err)
		}
	}
	if len(file.Instructions) == 0 {
		return nil, fmt.Errorf(
			"schema %s declares no instructions",
			file.Name,
		)
	}
	s := &Schema{
		Name:         file.Name,
		ProgramID:    programID,
		Convention:   conv,
		Instructions: convertVariants(file.Instructions),
		AllowUnknown: file.AllowUnknown,
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("schema %s: %w", file.Name, err)
	}
	return s, nil
}

// LoadFile parses a JSON schema document from disk
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func (s *Schema) validate() error {
	seenNames := map[string]bool{}
	seenTags := map[uint32]bool{}
	for _, v := range s.Instructions {
		if v.Name == "" {
			return fmt.Errorf("instruction with empty name")
		}
		if seenNames[v.Name] {
			return fmt.Errorf("duplicate instruction name %s", v.Name)
		}
		if seenTags[v.Tag] {
			return fmt.Errorf("duplicate instruction tag %d", v.Tag)
		}
		seenNames[v.Name] = true
		seenTags[v.Tag] = true
		if err := validateFields(v.Fields, v.Name); err != nil {
			return err
		}
	}
	return nil
}

func validateFields(fields []Field, path string) error {
	seen := map[string]bool{}
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field with empty name in %s", path)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %s.%s", path, f.Name)
		}
		seen[f.Name] = true
		if f.Type == nil {
			return fmt.Errorf("field %s.%s has no type", path, f.Name)
		}
		fieldPath := path + "." + f.Name
		switch f.Type.Kind {
		case KindStruct:
			if err := validateFields(f.Type.Fields, fieldPath); err != nil {
				return err
			}
		case KindVec, KindOption:
			if f.Type.Elem == nil {
				return fmt.Errorf(
					"field %s has no element type",
					fieldPath,
				)
			}
		case KindEnum:
			for _, variant := range f.Type.Variants {
				err := validateFields(
					variant.Fields,
					fieldPath+"."+variant.Name,
				)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
