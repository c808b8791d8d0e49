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

// Package rpc talks JSON-RPC to a Solana node: fetching recent blockhashes
// and simulating and submitting transactions
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/blinklabs-io/soltx/tx"
)

// Well-known cluster endpoints
const (
	MainnetURL   = "https://api.mainnet-beta.solana.com"
	TestnetURL   = "https://api.testnet.solana.com"
	DevnetURL    = "https://api.devnet.solana.com"
	LocalhostURL = "http://localhost:8899"
)

// NetworkURL resolves a cluster shortcut to its endpoint URL. Anything
// other than a known shortcut is passed through untouched, so explicit
// URLs work everywhere a shortcut does.
func NetworkURL(name string) string {
	switch name {
	case "m", "mainnet":
		return MainnetURL
	case "t", "testnet":
		return TestnetURL
	case "d", "devnet":
		return DevnetURL
	case "l", "localhost":
		return LocalhostURL
	default:
		return name
	}
}

// Client is a minimal JSON-RPC client for a Solana node
type Client struct {
	url          string
	httpClient   *http.Client
	logger       *slog.Logger
	pollInterval time.Duration
}

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithHTTPClient specifies the HTTP client to use for requests
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger specifies the logger to use for debug output
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPollInterval specifies the delay between finalization polls
func WithPollInterval(interval time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// NewClient returns a Client for the given endpoint URL
func NewClient(url string, options ...ClientOptionFunc) *Client {
	c := &Client{
		url:          url,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: time.Second,
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type rpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Id      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) call(
	ctx context.Context,
	method string,
	params []any,
) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JsonRpc: "2.0",
		Id:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.logger.Debug(
		"rpc request",
		"component", "rpc",
		"method", method,
		"url", c.url,
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"unexpected HTTP status from %s: %s",
			c.url,
			resp.Status,
		)
	}
	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed response to %s: %w", method, err)
	}
	if decoded.Error != nil {
		return nil, *decoded.Error
	}
	return decoded.Result, nil
}

type blockhashResult struct {
	Value struct {
		Blockhash string `json:"blockhash"`
	} `json:"value"`
}

func (c *Client) latestBlockhashUsingMethod(
	ctx context.Context,
	method string,
) (tx.Hash, error) {
	result, err := c.call(ctx, method, nil)
	if err != nil {
		return tx.Hash{}, err
	}
	var parsed blockhashResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return tx.Hash{}, fmt.Errorf(
			"malformed response to %s: %w",
			method,
			err,
		)
	}
	if parsed.Value.Blockhash == "" {
		return tx.Hash{}, fmt.Errorf(
			"response to %s is missing a blockhash",
			method,
		)
	}
	return tx.ParseHash(parsed.Value.Blockhash)
}

// LatestBlockhash fetches a recent blockhash, falling back to the
// deprecated getRecentBlockhash method for older nodes
func (c *Client) LatestBlockhash(ctx context.Context) (tx.Hash, error) {
	hash, err := c.latestBlockhashUsingMethod(ctx, "getLatestBlockhash")
	if err == nil {
		return hash, nil
	}
	if ctx.Err() != nil {
		return tx.Hash{}, err
	}
	return c.latestBlockhashUsingMethod(ctx, "getRecentBlockhash")
}

func encodeBase64(t *tx.Transaction) (string, error) {
	wire, err := t.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wire), nil
}

// SimulateTransaction runs the transaction against the node's current bank
// state without submitting it, failing with SimulationError when the node
// reports an execution error
func (c *Client) SimulateTransaction(
	ctx context.Context,
	t *tx.Transaction,
) error {
	encoded, err := encodeBase64(t)
	if err != nil {
		return err
	}
	result, err := c.call(
		ctx,
		"simulateTransaction",
		[]any{encoded, map[string]any{"encoding": "base64"}},
	)
	if err != nil {
		return err
	}
	var parsed struct {
		Value struct {
			Err  json.RawMessage `json:"err"`
			Logs []string        `json:"logs"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return fmt.Errorf(
			"malformed response to simulateTransaction: %w",
			err,
		)
	}
	if len(parsed.Value.Err) > 0 && string(parsed.Value.Err) != "null" {
		return SimulationError{
			Detail: string(parsed.Value.Err),
			Logs:   parsed.Value.Logs,
		}
	}
	return nil
}

// SendTransaction submits a fully-signed transaction and returns its
// base58 signature string. Missing signatures are rejected locally before
// anything is sent to the node.
func (c *Client) SendTransaction(
	ctx context.Context,
	t *tx.Transaction,
) (string, error) {
	if missing := t.UnsignedSigners(); len(missing) > 0 {
		return "", MissingSignaturesError{Missing: missing}
	}
	encoded, err := encodeBase64(t)
	if err != nil {
		return "", err
	}
	result, err := c.call(
		ctx,
		"sendTransaction",
		[]any{encoded, map[string]any{"encoding": "base64"}},
	)
	if err != nil {
		return "", err
	}
	var signature string
	if err := json.Unmarshal(result, &signature); err != nil {
		return "", fmt.Errorf(
			"malformed response to sendTransaction: %w",
			err,
		)
	}
	if _, err := tx.ParseSignature(signature); err != nil {
		return "", fmt.Errorf(
			"invalid signature in response to sendTransaction: %w",
			err,
		)
	}
	return signature, nil
}

// AwaitFinalized polls the node until the given transaction signature
// reaches finalized commitment or the context is done
func (c *Client) AwaitFinalized(
	ctx context.Context,
	signature string,
) error {
	for {
		result, err := c.call(
			ctx,
			"getTransaction",
			[]any{signature, map[string]any{"commitment": "finalized"}},
		)
		if err != nil {
			return err
		}
		if len(result) > 0 && string(result) != "null" {
			c.logger.Debug(
				"transaction finalized",
				"component", "rpc",
				"signature", signature,
			)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
