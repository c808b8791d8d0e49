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

// Package keys provides Ed25519 key material handling for Solana
// transactions: base58 public keys, keypair files, and program derived
// address (PDA) computation.
package keys

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// PubkeySize is the size of an Ed25519 public key in bytes
const PubkeySize = 32

// Pubkey is a 32-byte Ed25519 public key or program derived address
type Pubkey [PubkeySize]byte

// String returns the base58 text form of the key
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// Bytes returns the raw key bytes as a slice
func (p Pubkey) Bytes() []byte {
	return p[:]
}

// ParsePubkey decodes a base58-encoded public key
func ParsePubkey(s string) (Pubkey, error) {
	var p Pubkey
	decoded := base58.Decode(s)
	if len(decoded) != PubkeySize {
		return p, fmt.Errorf("invalid address: %s", s)
	}
	copy(p[:], decoded)
	return p, nil
}

// PubkeyFromBytes builds a Pubkey from a 32-byte slice
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != PubkeySize {
		return p, fmt.Errorf(
			"invalid public key length: expected %d, got %d",
			PubkeySize,
			len(b),
		)
	}
	copy(p[:], b)
	return p, nil
}
