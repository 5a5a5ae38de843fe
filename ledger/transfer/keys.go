package transfer

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/luo4lu/DCEP/lib/errors"
)

// SigningKey is the keypair the service mints currency with, derived from a
// seed kept in a configuration file.
type SigningKey struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// keyFile is the on-disk format of the seed file.
type keyFile struct {
	Seed string `json:"seed"` // hex-encoded 32 byte seed
}

// LoadSigningKey reads the seed file at the provided path and derives the
// service signing key from it.
func LoadSigningKey(
	path string,
) (*SigningKey, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Trace(err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}

	var file keyFile
	if err := json.Unmarshal(buf, &file); err != nil {
		return nil, errors.Trace(err)
	}

	seed, err := hex.DecodeString(file.Seed)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.Trace(errors.Newf(
			"Invalid signing key seed in %s", path))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &SigningKey{
		pub:  priv.Public().(ed25519.PublicKey),
		priv: priv,
	}, nil
}

// NewSigningKey generates a fresh signing key from the provided entropy
// source.
func NewSigningKey(
	rng io.Reader,
) (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &SigningKey{
		pub:  pub,
		priv: priv,
	}, nil
}

// Certificate returns the hex-encoded public certificate of the key.
func (k *SigningKey) Certificate() string {
	return hex.EncodeToString(k.pub)
}

// SignCurrency attaches a proof to the currency unit, authorizing its
// transfer. The unit's owner certificate must match this key.
func (k *SigningKey) SignCurrency(
	c *Currency,
) {
	c.Proof = hex.EncodeToString(ed25519.Sign(k.priv, c.digest()))
}

// CertifyCurrency attaches the minting service's issuance signature to a
// newly minted currency unit.
func (k *SigningKey) CertifyCurrency(
	c *Currency,
) {
	c.Issue = hex.EncodeToString(ed25519.Sign(k.priv, c.digest()))
}
