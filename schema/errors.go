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

import "fmt"

// MissingInputError indicates a leaf field with no supplied value
type MissingInputError struct {
	Name string
}

func (e MissingInputError) Error() string {
	return fmt.Sprintf("missing input for field %s", e.Name)
}

// TypeMismatchError indicates a supplied value of the wrong type
type TypeMismatchError struct {
	Name string
	Want string
	Got  any
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"type mismatch for field %s: expected %s, got %T (%v)",
		e.Name,
		e.Want,
		e.Got,
		e.Got,
	)
}

// UnknownFieldError indicates a supplied name that the schema does not
// declare
type UnknownFieldError struct {
	Name string
}

func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %s", e.Name)
}

// UnknownVariantError indicates a decoded discriminant with no declared
// variant
type UnknownVariantError struct {
	Tag    uint32
	Offset int
}

func (e UnknownVariantError) Error() string {
	return fmt.Sprintf(
		"unknown variant tag %d at offset %d",
		e.Tag,
		e.Offset,
	)
}

// UnknownInstructionError indicates a bind against an instruction name the
// schema does not declare
type UnknownInstructionError struct {
	Name string
}

func (e UnknownInstructionError) Error() string {
	return fmt.Sprintf("schema does not declare instruction %s", e.Name)
}
