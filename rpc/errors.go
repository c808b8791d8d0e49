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

package rpc

import (
	"fmt"
	"strings"

	"github.com/blinklabs-io/soltx/keys"
)

// RPCError is an error object returned by the node inside a JSON-RPC
// response envelope
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// SimulationError is returned when the node simulated the transaction and
// reported an execution error
type SimulationError struct {
	Detail string
	Logs   []string
}

func (e SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %s", e.Detail)
}

// MissingSignaturesError is returned when a transaction is submitted
// before all of its required signers have signed
type MissingSignaturesError struct {
	Missing []keys.Pubkey
}

func (e MissingSignaturesError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, p := range e.Missing {
		names = append(names, p.String())
	}
	return fmt.Sprintf(
		"transaction cannot be submitted because it is not signed by: %s",
		strings.Join(names, ", "),
	)
}
