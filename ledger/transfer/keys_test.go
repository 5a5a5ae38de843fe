package transfer

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSigningKey(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "key.json")
	buf, err := json.Marshal(keyFile{Seed: hex.EncodeToString(seed)})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatal(err)
	}

	key, err := LoadSigningKey(path)
	assert.Nil(t, err)

	// The derived key is deterministic for a given seed.
	again, err := LoadSigningKey(path)
	assert.Nil(t, err)
	assert.Equal(t, key.Certificate(), again.Certificate())

	c := Currency{ID: "c0", Owner: key.Certificate(), Amount: 10}
	key.SignCurrency(&c)
	assert.Nil(t, c.CheckProof())
}

func TestLoadSigningKeyRejectsBadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path,
		[]byte(`{"seed":"abcd"}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSigningKey(path)
	assert.NotNil(t, err)
}

func TestCheckProofMatchesOwnerOnly(t *testing.T) {
	key := testKey(t)
	other := testKey(t)

	c := Currency{ID: "c0", Owner: key.Certificate(), Amount: 10}
	key.SignCurrency(&c)
	assert.Nil(t, c.CheckProof())

	// A proof from another key does not verify.
	other.SignCurrency(&c)
	assert.NotNil(t, c.CheckProof())
}
