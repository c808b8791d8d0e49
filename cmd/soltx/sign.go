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

	"github.com/blinklabs-io/soltx/keys"
	"github.com/blinklabs-io/soltx/tx"
)

func runSign(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sign requires at least one keypair file")
	}
	keypairs := make([]*keys.Keypair, 0, len(args))
	for _, path := range args {
		kp, err := keys.LoadKeypair(path)
		if err != nil {
			return err
		}
		keypairs = append(keypairs, kp)
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	for _, kp := range keypairs {
		if err := decoded.Sign(kp); err != nil {
			return err
		}
	}
	return decoded.Encode(os.Stdout)
}

func runShowUnsigned(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("show-unsigned takes no arguments")
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	for _, pubkey := range decoded.UnsignedSigners() {
		fmt.Println(pubkey)
	}
	return nil
}

func runSignature(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("signature takes no arguments")
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	if len(decoded.SignedWritable) > 0 &&
		decoded.SignedWritable[0].Signature != nil {
		fmt.Println(decoded.SignedWritable[0].Signature)
		return nil
	}
	return fmt.Errorf("transaction is not signed and thus has no signature")
}
