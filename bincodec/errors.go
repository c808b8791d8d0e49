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

import "fmt"

// TruncatedError indicates that the input ended before a complete value
// could be decoded
type TruncatedError struct {
	// Offset is the position in the input where decoding stopped
	Offset int
	// Want is the number of bytes needed, Have the number remaining
	Want int
	Have int
}

func (e TruncatedError) Error() string {
	return fmt.Sprintf(
		"truncated input at offset %d: need %d bytes, have %d",
		e.Offset,
		e.Want,
		e.Have,
	)
}

// TrailingBytesError indicates that input remained after a complete value
// was decoded
type TrailingBytesError struct {
	Offset    int
	Remaining int
}

func (e TrailingBytesError) Error() string {
	return fmt.Sprintf(
		"%d trailing bytes after offset %d",
		e.Remaining,
		e.Offset,
	)
}

// ValueOutOfRangeError indicates a value that does not fit the target type
type ValueOutOfRangeError struct {
	Value any
	Type  string
}

func (e ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("value %v out of range for %s", e.Value, e.Type)
}

// UnsupportedTypeError indicates a type that the selected convention cannot
// represent, such as a string or vector under the C layout
type UnsupportedTypeError struct {
	Type       string
	Convention Convention
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf(
		"%s values cannot be used with %s encoding",
		e.Type,
		e.Convention,
	)
}
