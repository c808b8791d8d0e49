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

package tx

import (
	"github.com/blinklabs-io/soltx/keys"
)

// Sign fills every signer slot matching the keypair's public key with a
// signature over the canonical message bytes. A keypair whose key is not a
// required signer is a no-op, not an error: callers may offer a whole
// keyring and let each transaction take what it needs.
func (t *Transaction) Sign(kp *keys.Keypair) error {
	pub := kp.Pubkey()
	matched := false
	for i := range t.SignedWritable {
		if t.SignedWritable[i].Pubkey == pub {
			matched = true
		}
	}
	for i := range t.SignedReadonly {
		if t.SignedReadonly[i].Pubkey == pub {
			matched = true
		}
	}
	if !matched {
		return nil
	}
	message, err := t.MessageBytes()
	if err != nil {
		return err
	}
	sig := Signature(kp.Sign(message))
	for i := range t.SignedWritable {
		if t.SignedWritable[i].Pubkey == pub {
			t.SignedWritable[i].Signature = &sig
		}
	}
	for i := range t.SignedReadonly {
		if t.SignedReadonly[i].Pubkey == pub {
			t.SignedReadonly[i].Signature = &sig
		}
	}
	return nil
}

// UnsignedSigners returns the required signer keys whose slots are still
// empty, deduplicated, in canonical order
func (t *Transaction) UnsignedSigners() []keys.Pubkey {
	var out []keys.Pubkey
	seen := map[keys.Pubkey]bool{}
	for _, slot := range t.SignedWritable {
		if slot.Signature == nil && !seen[slot.Pubkey] {
			seen[slot.Pubkey] = true
			out = append(out, slot.Pubkey)
		}
	}
	for _, slot := range t.SignedReadonly {
		if slot.Signature == nil && !seen[slot.Pubkey] {
			seen[slot.Pubkey] = true
			out = append(out, slot.Pubkey)
		}
	}
	return out
}

// SignatureFor returns the signature in the slot belonging to the given
// key, failing with NotASignerError when the key is not a required signer.
// An unsigned slot returns the zero signature.
func (t *Transaction) SignatureFor(p keys.Pubkey) (Signature, error) {
	for _, slot := range t.SignedWritable {
		if slot.Pubkey == p {
			if slot.Signature != nil {
				return *slot.Signature, nil
			}
			return Signature{}, nil
		}
	}
	for _, slot := range t.SignedReadonly {
		if slot.Pubkey == p {
			if slot.Signature != nil {
				return *slot.Signature, nil
			}
			return Signature{}, nil
		}
	}
	return Signature{}, NotASignerError{Pubkey: p}
}
