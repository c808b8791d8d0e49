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
	"github.com/blinklabs-io/soltx/schema"
)

func addressEntry(
	p keys.Pubkey,
	signed bool,
	writable bool,
	hasSignature *bool,
) map[string]any {
	entry := map[string]any{
		"address":       p.String(),
		"is_read_write": writable,
	}
	if signed {
		entry["is_signed"] = true
		if hasSignature != nil && !*hasSignature {
			entry["has_signature"] = false
		}
	}
	return entry
}

func instructionEntry(
	in Instruction,
	lookup func(keys.Pubkey) *schema.Schema,
) map[string]any {
	entry := map[string]any{
		"program_id": in.ProgramID.String(),
	}
	if len(in.Accounts) > 0 {
		accounts := make([]any, 0, len(in.Accounts))
		for _, meta := range in.Accounts {
			accounts = append(
				accounts,
				addressEntry(meta.Pubkey, meta.Signer, meta.Writable, nil),
			)
		}
		entry["addresses"] = accounts
	}
	data := make([]any, 0, len(in.Data))
	for _, b := range in.Data {
		data = append(data, int(b))
	}
	entry["data"] = data
	if lookup != nil {
		if s := lookup(in.ProgramID); s != nil {
			if decoded, _, err := s.Decode(in.Data); err == nil {
				entry["decoded"] = map[string]any{
					"instruction": decoded.Instruction,
					"fields":      decoded.Fields,
				}
			}
		}
	}
	return entry
}

// Summary converts the transaction into a JSON-friendly display tree. The
// optional lookup maps a program id to a registered schema; when it returns
// one and the instruction data decodes cleanly, the instruction entry gains
// a "decoded" member alongside the raw data bytes.
func (t *Transaction) Summary(
	lookup func(keys.Pubkey) *schema.Schema,
) map[string]any {
	out := map[string]any{}
	var addresses []any
	for _, slot := range t.SignedWritable {
		has := slot.Signature != nil
		addresses = append(
			addresses,
			addressEntry(slot.Pubkey, true, true, &has),
		)
	}
	for _, slot := range t.SignedReadonly {
		has := slot.Signature != nil
		addresses = append(
			addresses,
			addressEntry(slot.Pubkey, true, false, &has),
		)
	}
	for _, p := range t.UnsignedWritable {
		addresses = append(addresses, addressEntry(p, false, true, nil))
	}
	for _, p := range t.UnsignedReadonly {
		addresses = append(addresses, addressEntry(p, false, false, nil))
	}
	if len(addresses) > 0 {
		addresses[0].(map[string]any)["fee_payer"] = true
		out["addresses"] = addresses
	}
	if t.Blockhash != nil {
		out["recent_blockhash"] = t.Blockhash.String()
	}
	instructions := make([]any, 0, len(t.Instructions))
	for _, in := range t.Instructions {
		instructions = append(instructions, instructionEntry(in, lookup))
	}
	out["instructions"] = instructions
	return out
}
