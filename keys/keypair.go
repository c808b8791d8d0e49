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
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
)

// KeypairFileSize is the byte count stored in a keypair file: the 32-byte
// Ed25519 seed followed by the 32-byte public key
const KeypairFileSize = 64

// Keypair wraps an Ed25519 private key together with its public half
type Keypair struct {
	pub  Pubkey
	priv ed25519.PrivateKey
}

// Pubkey returns the public half of the keypair
func (k *Keypair) Pubkey() Pubkey {
	return k.pub
}

// Sign produces an Ed25519 signature over message
func (k *Keypair) Sign(message []byte) [64]byte {
	var sig [64]byte
	copy(sig[:], ed25519.Sign(k.priv, message))
	return sig
}

// NewKeypairFromSeed builds a keypair from a 32-byte Ed25519 seed
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf(
			"invalid seed length: expected %d, got %d",
			ed25519.SeedSize,
			len(seed),
		)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var pub Pubkey
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return &Keypair{pub: pub, priv: priv}, nil
}

// GenerateKeypair creates a new random keypair
func GenerateKeypair() (*Keypair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return NewKeypairFromSeed(seed)
}

// LoadKeypair reads a keypair file: a JSON array of 64 byte values, the
// seed followed by the public key (the solana-keygen file format)
func LoadKeypair(path string) (*Keypair, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []int
	if err := json.Unmarshal(bytes.TrimSpace(contents), &raw); err != nil {
		return nil, fmt.Errorf("invalid key file contents in %s: %w", path, err)
	}
	if len(raw) != KeypairFileSize {
		return nil, fmt.Errorf(
			"invalid key file %s: expected %d bytes, got %d",
			path,
			KeypairFileSize,
			len(raw),
		)
	}
	keyBytes := make([]byte, KeypairFileSize)
	for i, v := range raw {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf(
				"invalid key file %s: byte value %d out of range",
				path,
				v,
			)
		}
		keyBytes[i] = byte(v)
	}
	kp, err := NewKeypairFromSeed(keyBytes[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(kp.pub[:], keyBytes[ed25519.SeedSize:]) {
		return nil, fmt.Errorf(
			"invalid key file %s: public key does not match secret key",
			path,
		)
	}
	return kp, nil
}

// ResolvePubkey interprets s as either a keypair file path or a base58
// public key literal, preferring the file if one exists. This is the key
// provider used by the CLI for fee payer and account references.
func ResolvePubkey(s string) (Pubkey, error) {
	if kp, err := LoadKeypair(s); err == nil {
		return kp.Pubkey(), nil
	}
	return ParsePubkey(s)
}
