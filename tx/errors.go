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
	"fmt"

	"github.com/blinklabs-io/soltx/keys"
)

// NotASignerError is returned when a signature is requested for a key that
// is not among the transaction's required signers
type NotASignerError struct {
	Pubkey keys.Pubkey
}

func (e NotASignerError) Error() string {
	return fmt.Sprintf("key %s is not a required signer", e.Pubkey)
}
