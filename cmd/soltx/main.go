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
)

const usageMessage = `Usage: soltx COMMAND [ARGS]

Commands:
  encode          build a transaction from directive words (argv or stdin)
  decode          print a transaction from stdin as JSON
  hash            apply a recent blockhash fetched from a node
  sign            sign a transaction with one or more keypair files
  show-unsigned   list signer keys that have not signed yet
  signature       print the fee payer signature of a signed transaction
  pda             derive a program address from a program id and seeds
  simulate        simulate a transaction against a node
  submit          submit a transaction and await finalization

Transactions travel as raw bytes on stdin and stdout, so commands chain:

  soltx encode fee_payer key.json program 11111111111111111111111111111111 \
      account dest.json w u32 2 u64 1000 |
    soltx hash devnet |
    soltx sign key.json |
    soltx submit devnet
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageMessage)
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "hash":
		err = runHash(os.Args[2:])
	case "sign":
		err = runSign(os.Args[2:])
	case "show-unsigned":
		err = runShowUnsigned(os.Args[2:])
	case "signature":
		err = runSignature(os.Args[2:])
	case "pda":
		err = runPda(os.Args[2:])
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "submit":
		err = runSubmit(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usageMessage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprint(os.Stderr, usageMessage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
