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

package rpc_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/soltx/keys"
	"github.com/blinklabs-io/soltx/rpc"
	"github.com/blinklabs-io/soltx/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type rpcCall struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// testServer answers each JSON-RPC method with a canned response body
func testServer(
	t *testing.T,
	handler func(call rpcCall) string,
) (*rpc.Client, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var call rpcCall
			require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
			fmt.Fprint(w, handler(call))
		},
	))
	client := rpc.NewClient(
		server.URL,
		rpc.WithHTTPClient(server.Client()),
		rpc.WithPollInterval(time.Millisecond),
	)
	cleanup := func() {
		server.Client().CloseIdleConnections()
		server.Close()
	}
	return client, cleanup
}

func testTransaction(t *testing.T, signed bool) *tx.Transaction {
	t.Helper()
	seed := bytes.Repeat([]byte{0x51}, 32)
	kp, err := keys.NewKeypairFromSeed(seed)
	require.NoError(t, err)
	var program keys.Pubkey
	program[0] = 0x33
	built := tx.Assemble(
		kp.Pubkey(),
		program,
		nil,
		[]byte{0x01, 0x02},
		nil,
	)
	if signed {
		require.NoError(t, built.Sign(kp))
	}
	return built
}

func TestNetworkURL(t *testing.T) {
	testDefs := []struct {
		name     string
		expected string
	}{
		{name: "m", expected: rpc.MainnetURL},
		{name: "mainnet", expected: rpc.MainnetURL},
		{name: "t", expected: rpc.TestnetURL},
		{name: "testnet", expected: rpc.TestnetURL},
		{name: "d", expected: rpc.DevnetURL},
		{name: "devnet", expected: rpc.DevnetURL},
		{name: "l", expected: rpc.LocalhostURL},
		{name: "localhost", expected: rpc.LocalhostURL},
		{name: "http://example.com:8899", expected: "http://example.com:8899"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, rpc.NetworkURL(testDef.name))
	}
}

func TestLatestBlockhash(t *testing.T) {
	var expected tx.Hash
	for i := range expected {
		expected[i] = byte(i)
	}
	client, cleanup := testServer(t, func(call rpcCall) string {
		require.Equal(t, "getLatestBlockhash", call.Method)
		return fmt.Sprintf(
			`{"jsonrpc":"2.0","id":1,"result":{"value":{"blockhash":%q}}}`,
			expected,
		)
	})
	defer cleanup()

	hash, err := client.LatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, hash)
}

func TestLatestBlockhashFallback(t *testing.T) {
	var expected tx.Hash
	expected[0] = 0x7f
	client, cleanup := testServer(t, func(call rpcCall) string {
		if call.Method == "getLatestBlockhash" {
			return `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`
		}
		require.Equal(t, "getRecentBlockhash", call.Method)
		return fmt.Sprintf(
			`{"jsonrpc":"2.0","id":1,"result":{"value":{"blockhash":%q}}}`,
			expected,
		)
	})
	defer cleanup()

	hash, err := client.LatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, hash)
}

func TestSimulateTransaction(t *testing.T) {
	built := testTransaction(t, true)
	wire, err := built.MarshalBinary()
	require.NoError(t, err)

	client, cleanup := testServer(t, func(call rpcCall) string {
		require.Equal(t, "simulateTransaction", call.Method)
		require.Len(t, call.Params, 2)
		encoded, ok := call.Params[0].(string)
		require.True(t, ok)
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		require.Equal(t, wire, decoded)
		return `{"jsonrpc":"2.0","id":1,"result":{"value":{"err":null,"logs":[]}}}`
	})
	defer cleanup()

	require.NoError(t, client.SimulateTransaction(context.Background(), built))
}

func TestSimulateTransactionFailure(t *testing.T) {
	built := testTransaction(t, true)
	client, cleanup := testServer(t, func(call rpcCall) string {
		return `{"jsonrpc":"2.0","id":1,"result":{"value":{"err":{"InstructionError":[0,"InvalidArgument"]},"logs":["Program log: boom"]}}}`
	})
	defer cleanup()

	err := client.SimulateTransaction(context.Background(), built)
	require.Error(t, err)
	var simErr rpc.SimulationError
	require.ErrorAs(t, err, &simErr)
	assert.Contains(t, simErr.Detail, "InstructionError")
	assert.Equal(t, []string{"Program log: boom"}, simErr.Logs)
}

func TestSendTransactionUnsigned(t *testing.T) {
	built := testTransaction(t, false)
	client, cleanup := testServer(t, func(call rpcCall) string {
		t.Error("unsigned transaction must be rejected before any request")
		return ""
	})
	defer cleanup()

	_, err := client.SendTransaction(context.Background(), built)
	require.Error(t, err)
	var missing rpc.MissingSignaturesError
	require.ErrorAs(t, err, &missing)
	require.Len(t, missing.Missing, 1)
}

func TestSendTransaction(t *testing.T) {
	built := testTransaction(t, true)
	expected, err := built.SignatureFor(built.SignedWritable[0].Pubkey)
	require.NoError(t, err)

	client, cleanup := testServer(t, func(call rpcCall) string {
		require.Equal(t, "sendTransaction", call.Method)
		return fmt.Sprintf(
			`{"jsonrpc":"2.0","id":1,"result":%q}`,
			expected,
		)
	})
	defer cleanup()

	signature, err := client.SendTransaction(context.Background(), built)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), signature)
}

func TestAwaitFinalized(t *testing.T) {
	var signature tx.Signature
	signature[0] = 0x99
	calls := 0
	client, cleanup := testServer(t, func(call rpcCall) string {
		require.Equal(t, "getTransaction", call.Method)
		calls++
		if calls < 3 {
			return `{"jsonrpc":"2.0","id":1,"result":null}`
		}
		return `{"jsonrpc":"2.0","id":1,"result":{"slot":12345}}`
	})
	defer cleanup()

	err := client.AwaitFinalized(context.Background(), signature.String())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestAwaitFinalizedContextCancel(t *testing.T) {
	client, cleanup := testServer(t, func(call rpcCall) string {
		return `{"jsonrpc":"2.0","id":1,"result":null}`
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Millisecond,
	)
	defer cancel()
	var signature tx.Signature
	err := client.AwaitFinalized(ctx, signature.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRPCErrorEnvelope(t *testing.T) {
	client, cleanup := testServer(t, func(call rpcCall) string {
		return `{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":"Transaction simulation failed"}}`
	})
	defer cleanup()

	built := testTransaction(t, true)
	_, err := client.SendTransaction(context.Background(), built)
	require.Error(t, err)
	var rpcErr rpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32002, rpcErr.Code)
}
