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
	"os"

	"github.com/blinklabs-io/soltx/bincodec"
	"github.com/blinklabs-io/soltx/keys"
	"github.com/blinklabs-io/soltx/tx"
)

// readAccounts consumes account directives: "account PUBKEY [w|s|ws|sw]"
func readAccounts(wr *wordReader) ([]tx.AccountMeta, error) {
	var out []tx.AccountMeta
	for {
		if err := wr.skipComments(); err != nil {
			return nil, err
		}
		if wr.empty() || wr.peek() != "account" {
			return out, nil
		}
		wr.next()
		if wr.empty() {
			return nil, fmt.Errorf("missing account pubkey")
		}
		pubkey, err := keys.ResolvePubkey(wr.next())
		if err != nil {
			return nil, err
		}
		meta := tx.AccountMeta{Pubkey: pubkey}
		if !wr.empty() {
			switch wr.peek() {
			case "s":
				wr.next()
				meta.Signer = true
			case "w":
				wr.next()
				meta.Writable = true
			case "sw", "ws":
				wr.next()
				meta.Signer = true
				meta.Writable = true
			}
		}
		out = append(out, meta)
	}
}

func buildTransaction(words []string) (*tx.Transaction, error) {
	wr := &wordReader{words: words}
	if wr.empty() {
		return nil, fmt.Errorf("no encode parameters")
	}

	conv := bincodec.BincodeVarint
	if wr.peek() == "encoding" {
		name, err := wr.singleValue()
		if err != nil {
			return nil, err
		}
		conv, err = bincodec.ParseConvention(name)
		if err != nil {
			return nil, err
		}
	}

	if wr.empty() {
		return nil, fmt.Errorf("missing fee payer")
	}
	if wr.peek() != "fee_payer" {
		return nil, fmt.Errorf("expected fee_payer before instructions")
	}
	feePayerWord, err := wr.singleValue()
	if err != nil {
		return nil, err
	}
	feePayer, err := keys.ResolvePubkey(feePayerWord)
	if err != nil {
		return nil, err
	}

	built := tx.New(feePayer)
	for {
		if err := wr.skipComments(); err != nil {
			return nil, err
		}
		if wr.empty() {
			break
		}
		if wr.peek() != "program" {
			return nil, fmt.Errorf(
				"first line of instruction is expected to be program",
			)
		}
		programWord, err := wr.singleValue()
		if err != nil {
			return nil, err
		}
		programID, err := keys.ResolvePubkey(programWord)
		if err != nil {
			return nil, err
		}
		accounts, err := readAccounts(wr)
		if err != nil {
			return nil, err
		}
		values, err := readDataValues(wr)
		if err != nil {
			return nil, err
		}
		enc := bincodec.NewEncoder(conv)
		for i := range values {
			if err := values[i].encodeInto(enc); err != nil {
				return nil, err
			}
		}
		built.AddInstruction(tx.Instruction{
			ProgramID: programID,
			Accounts:  accounts,
			Data:      enc.Bytes(),
		})
	}
	return built, nil
}

func runEncode(args []string) error {
	var words []string
	if len(args) == 0 {
		var err error
		words, err = readWords(os.Stdin)
		if err != nil {
			return err
		}
	} else {
		for _, arg := range args {
			words = append(words, makeWords(arg)...)
		}
	}
	built, err := buildTransaction(words)
	if err != nil {
		return err
	}
	return built.Encode(os.Stdout)
}
