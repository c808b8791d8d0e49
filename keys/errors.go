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

package keys

import "fmt"

// TooManySeedsError indicates a PDA derivation with more seeds than the
// protocol allows
type TooManySeedsError struct {
	Count int
}

func (e TooManySeedsError) Error() string {
	return fmt.Sprintf(
		"too many seeds: %d exceeds maximum of %d (including bump)",
		e.Count,
		MaxSeeds,
	)
}

// SeedTooLongError indicates a single PDA seed longer than the protocol
// allows
type SeedTooLongError struct {
	Index  int
	Length int
}

func (e SeedTooLongError) Error() string {
	return fmt.Sprintf(
		"seed %d too long: %d exceeds maximum of %d bytes",
		e.Index,
		e.Length,
		MaxSeedLen,
	)
}

// OnCurveError indicates a derived address that is a valid curve point and
// therefore not usable as a program derived address
type OnCurveError struct{}

func (OnCurveError) Error() string {
	return "derived address is on the ed25519 curve"
}

// BumpNotFoundError indicates that no bump value in 0..=255 produced an
// off-curve address
type BumpNotFoundError struct{}

func (BumpNotFoundError) Error() string {
	return "no valid bump seed found for the given seeds and program id"
}
