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

package keys_test

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/soltx/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubkeyBase58RoundTrip(t *testing.T) {
	var p keys.Pubkey
	for i := range p {
		p[i] = byte(i + 1)
	}
	parsed, err := keys.ParsePubkey(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
}

func TestParsePubkeyInvalid(t *testing.T) {
	// Too short once decoded
	if _, err := keys.ParsePubkey("abc"); err == nil {
		t.Fatal("expected error for short address")
	}
	// Invalid base58 characters
	if _, err := keys.ParsePubkey("0OIl"); err == nil {
		t.Fatal("expected error for invalid base58")
	}
}

func TestLoadKeypair(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	kp, err := keys.NewKeypairFromSeed(seed)
	require.NoError(t, err)

	fileBytes := make([]int, 0, keys.KeypairFileSize)
	for _, b := range seed {
		fileBytes = append(fileBytes, int(b))
	}
	for _, b := range kp.Pubkey().Bytes() {
		fileBytes = append(fileBytes, int(b))
	}
	contents, err := json.Marshal(fileBytes)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	loaded, err := keys.LoadKeypair(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Pubkey(), loaded.Pubkey())

	// ResolvePubkey prefers the keyfile when one exists
	resolved, err := keys.ResolvePubkey(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Pubkey(), resolved)

	// And falls back to base58 literals otherwise
	resolved, err = keys.ResolvePubkey(kp.Pubkey().String())
	require.NoError(t, err)
	assert.Equal(t, kp.Pubkey(), resolved)
}

func TestLoadKeypairMismatchedPublicKey(t *testing.T) {
	fileBytes := make([]int, keys.KeypairFileSize)
	for i := range fileBytes {
		fileBytes[i] = i
	}
	contents, err := json.Marshal(fileBytes)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	if _, err := keys.LoadKeypair(path); err == nil {
		t.Fatal("expected error for mismatched public key half")
	}
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	var programID, a, b keys.Pubkey
	for i := range programID {
		programID[i] = 0x11
		a[i] = 0x22
		b[i] = 0x33
	}
	seeds := [][]byte{[]byte("metadata"), a.Bytes(), b.Bytes()}

	addr1, bump1, err := keys.FindProgramAddress(programID, seeds)
	require.NoError(t, err)
	addr2, bump2, err := keys.FindProgramAddress(programID, seeds)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)

	// Re-deriving with the found bump appended as an extra seed must
	// reproduce the address without a search
	direct, err := keys.CreateProgramAddress(
		programID,
		append(append([][]byte{}, seeds...), []byte{bump1}),
	)
	require.NoError(t, err)
	assert.Equal(t, addr1, direct)

	// Every bump above the winner must be on-curve; spot-check that the
	// winner really is the highest satisfying value
	for bump := 255; bump > int(bump1); bump-- {
		_, err := keys.CreateProgramAddress(
			programID,
			append(append([][]byte{}, seeds...), []byte{byte(bump)}),
		)
		var onCurve keys.OnCurveError
		require.ErrorAs(t, err, &onCurve,
			"bump %d above the winner should be on-curve", bump)
	}
}

func TestFindProgramAddressSeedLimits(t *testing.T) {
	var programID keys.Pubkey

	longSeed := make([]byte, keys.MaxSeedLen+1)
	var seedErr keys.SeedTooLongError
	_, _, err := keys.FindProgramAddress(programID, [][]byte{longSeed})
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, 0, seedErr.Index)

	manySeeds := make([][]byte, keys.MaxSeeds)
	for i := range manySeeds {
		manySeeds[i] = []byte{byte(i)}
	}
	var countErr keys.TooManySeedsError
	// MaxSeeds user seeds leave no room for the bump seed
	_, _, err = keys.FindProgramAddress(programID, manySeeds)
	require.ErrorAs(t, err, &countErr)

	// A direct derivation may use all MaxSeeds slots
	_, err = keys.CreateProgramAddress(programID, manySeeds)
	if err != nil {
		var onCurve keys.OnCurveError
		require.ErrorAs(t, err, &onCurve)
	}

	_, err = keys.CreateProgramAddress(
		programID,
		append(manySeeds, []byte{0}),
	)
	require.ErrorAs(t, err, &countErr)
}

func TestSignDeterministic(t *testing.T) {
	kp, err := keys.GenerateKeypair()
	require.NoError(t, err)
	message := []byte("canonical message bytes")
	sig1 := kp.Sign(message)
	sig2 := kp.Sign(message)
	assert.Equal(t, sig1, sig2)
	assert.True(
		t,
		ed25519.Verify(
			ed25519.PublicKey(kp.Pubkey().Bytes()),
			message,
			sig1[:],
		),
	)
}
