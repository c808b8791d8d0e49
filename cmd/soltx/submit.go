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
	"context"
	"fmt"
	"os"

	"github.com/blinklabs-io/soltx/rpc"
	"github.com/blinklabs-io/soltx/tx"
)

// clientFromArgs builds an RPC client from an optional cluster argument:
// a network shortcut (m/mainnet, t/testnet, d/devnet, l/localhost) or a
// URL, defaulting to mainnet
func clientFromArgs(args []string) (*rpc.Client, error) {
	switch len(args) {
	case 0:
		return rpc.NewClient(rpc.MainnetURL), nil
	case 1:
		return rpc.NewClient(rpc.NetworkURL(args[0])), nil
	default:
		return nil, fmt.Errorf("invalid argument: %s", args[1])
	}
}

// runHash fetches a recent blockhash from the node and applies it to the
// transaction on stdin
func runHash(args []string) error {
	client, err := clientFromArgs(args)
	if err != nil {
		return err
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	blockhash, err := client.LatestBlockhash(context.Background())
	if err != nil {
		return err
	}
	decoded.SetBlockhash(blockhash)
	return decoded.Encode(os.Stdout)
}

// runSimulate simulates the transaction on stdin against the node and
// passes the bytes through to stdout on success, so a pipeline can
// simulate before submitting
func runSimulate(args []string) error {
	client, err := clientFromArgs(args)
	if err != nil {
		return err
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	if err := client.SimulateTransaction(
		context.Background(),
		decoded,
	); err != nil {
		return err
	}
	return decoded.Encode(os.Stdout)
}

// runSubmit sends the transaction on stdin and polls until it reaches
// finalized commitment
func runSubmit(args []string) error {
	client, err := clientFromArgs(args)
	if err != nil {
		return err
	}
	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	ctx := context.Background()
	signature, err := client.SendTransaction(ctx, decoded)
	if err != nil {
		return err
	}
	fmt.Printf("Transaction signature: %s\n", signature)
	return client.AwaitFinalized(ctx, signature)
}
