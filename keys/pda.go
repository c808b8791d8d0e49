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

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
)

const (
	// MaxSeeds is the maximum number of seeds in a PDA derivation
	MaxSeeds = 16

	// MaxSeedLen is the maximum length of a single seed in bytes
	MaxSeedLen = 32
)

// pdaMarker is the domain separation tag appended to every PDA hash input
var pdaMarker = []byte("ProgramDerivedAddress")

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return TooManySeedsError{Count: len(seeds)}
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return SeedTooLongError{Index: i, Length: len(seed)}
		}
	}
	return nil
}

// isOnCurve reports whether b is a valid point on the Ed25519 curve. A
// derived address must NOT be on the curve, so no private key can exist
// for it.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress derives the program address for the given seeds
// without a bump search: sha256 over the concatenated seeds, the program
// id and the PDA domain tag. Fails with OnCurveError if the digest is a
// valid curve point.
func CreateProgramAddress(programID Pubkey, seeds [][]byte) (Pubkey, error) {
	var addr Pubkey
	if err := validateSeeds(seeds); err != nil {
		return addr, err
	}
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)
	digest := h.Sum(nil)
	if isOnCurve(digest) {
		return addr, OnCurveError{}
	}
	copy(addr[:], digest)
	return addr, nil
}

// FindProgramAddress searches for the highest bump seed in 255..0 whose
// derived address is off-curve, returning the address and the bump. The
// search is deterministic: identical inputs always produce the identical
// result. Exhausting all 256 bump values fails with BumpNotFoundError,
// which is cryptographically negligible but still handled.
func FindProgramAddress(
	programID Pubkey,
	seeds [][]byte,
) (Pubkey, uint8, error) {
	// The bump is appended as an extra seed, so one fewer user seed is
	// allowed than in a direct derivation
	if len(seeds)+1 > MaxSeeds {
		return Pubkey{}, 0, TooManySeedsError{Count: len(seeds)}
	}
	if err := validateSeeds(seeds); err != nil {
		return Pubkey{}, 0, err
	}
	searchSeeds := append(append([][]byte{}, seeds...), nil)
	for bump := 255; bump >= 0; bump-- {
		searchSeeds[len(searchSeeds)-1] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(programID, searchSeeds)
		switch err.(type) {
		case nil:
			return addr, uint8(bump), nil
		case OnCurveError:
			continue
		default:
			return Pubkey{}, 0, err
		}
	}
	return Pubkey{}, 0, BumpNotFoundError{}
}
