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

package main

import (
	"fmt"
	"strings"

	"github.com/blinklabs-io/soltx/keys"
)

func formatPubkeyBytes(p keys.Pubkey) string {
	parts := make([]string, 0, len(p))
	for _, b := range p.Bytes() {
		parts = append(parts, fmt.Sprintf("%d", b))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// runPda derives a program address from a program id and seed values,
// written as the encode directive grammar:
//
//	soltx pda PROGRAM [ string metadata pubkey ... ]
//
// The leading "no-bump-seed" modifier derives directly from the given
// seeds without searching for a bump; "bytes" prints the address as a
// JSON byte array instead of base58.
func runPda(args []string) error {
	useBump := true
	asBytes := false
	for len(args) > 0 {
		if args[0] == "no-bump-seed" {
			useBump = false
			args = args[1:]
			continue
		}
		if args[0] == "bytes" {
			asBytes = true
			args = args[1:]
			continue
		}
		break
	}
	if len(args) == 0 {
		return fmt.Errorf("missing program id")
	}
	programID, err := keys.ResolvePubkey(args[0])
	if err != nil {
		return err
	}

	var words []string
	for _, arg := range args[1:] {
		words = append(words, makeWords(arg)...)
	}
	wr := &wordReader{words: words}
	var values []dataValue
	if !wr.empty() && wr.peek() == "[" {
		values, err = readBracketed("pda", wr)
	} else {
		values, err = readDataValues(wr)
	}
	if err != nil {
		return err
	}
	if !wr.empty() {
		return fmt.Errorf("unexpected seed data: %s", wr.peek())
	}

	seeds := make([][]byte, 0, len(values))
	for i := range values {
		seed, err := values[i].seedBytes()
		if err != nil {
			return err
		}
		seeds = append(seeds, seed)
	}

	if useBump {
		address, bump, err := keys.FindProgramAddress(programID, seeds)
		if err != nil {
			return err
		}
		if asBytes {
			fmt.Printf("%s.%d\n", formatPubkeyBytes(address), bump)
		} else {
			fmt.Printf("%s.%d\n", address, bump)
		}
		return nil
	}
	address, err := keys.CreateProgramAddress(programID, seeds)
	if err != nil {
		if _, ok := err.(keys.OnCurveError); ok {
			return fmt.Errorf("cannot find PDA, consider allowing bump seed")
		}
		return err
	}
	if asBytes {
		fmt.Println(formatPubkeyBytes(address))
	} else {
		fmt.Println(address)
	}
	return nil
}
