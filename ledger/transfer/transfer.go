// Package transfer implements the encoding, validation and minting of
// currency transfers. The settlement engine consumes transfers through this
// package's interface and trusts its results; it never re-derives signatures
// itself.
package transfer

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/token"
)

// Currency is one transferable currency unit: its id, denomination and the
// certificate of its holder. Proof is the owner's signature authorizing the
// unit's transfer and is required on inputs; Issue is the minting service's
// signature attached when the unit is created.
type Currency struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`  // hex-encoded public certificate
	Amount int64  `json:"amount"` // smallest currency unit
	Proof  string `json:"proof,omitempty"`
	Issue  string `json:"issue,omitempty"`
}

// Output describes a unit to mint: the recipient certificate and the amount.
type Output struct {
	Owner  string `json:"owner"`
	Amount int64  `json:"amount"`
}

// wireTransfer is the canonical encoded form of a transfer.
type wireTransfer struct {
	Inputs  []Currency `json:"inputs"`
	Outputs []Output   `json:"outputs"`
	Nonce   string     `json:"nonce"`
}

// Transfer is a parsed transfer: the input units it consumes and the outputs
// it asks to mint.
type Transfer struct {
	wire wireTransfer
	raw  []byte
}

// Parse decodes the provided bytes into a Transfer. It only checks the shape
// of the payload; cryptographic validation is performed by Verify.
func Parse(
	raw []byte,
) (*Transfer, error) {
	var wire wireTransfer
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Trace(err)
	}
	if len(wire.Outputs) == 0 {
		return nil, errors.Trace(errors.Newf(
			"Invalid transfer: no output to mint"))
	}
	if wire.Nonce == "" {
		return nil, errors.Trace(errors.Newf(
			"Invalid transfer: missing nonce"))
	}

	return &Transfer{
		wire: wire,
		raw:  raw,
	}, nil
}

// New assembles a transfer from input units (already carrying their proofs)
// and output descriptions, generating a fresh nonce so that transfer ids are
// unique even for identical input/output sets.
func New(
	inputs []Currency,
	outputs []Output,
) (*Transfer, error) {
	if len(outputs) == 0 {
		return nil, errors.Trace(errors.Newf(
			"Invalid transfer: no output to mint"))
	}

	wire := wireTransfer{
		Inputs:  inputs,
		Outputs: outputs,
		Nonce:   token.New("nonce"),
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return &Transfer{
		wire: wire,
		raw:  raw,
	}, nil
}

// ID returns the transaction id of the transfer, derived from its canonical
// encoded form.
func (t *Transfer) ID() string {
	h := sha3.Sum256(t.raw)
	return hex.EncodeToString(h[:])
}

// Raw returns the canonical encoded form of the transfer.
func (t *Transfer) Raw() []byte {
	return t.raw
}

// Inputs returns the currency units consumed by the transfer.
func (t *Transfer) Inputs() []Currency {
	return t.wire.Inputs
}

// Outputs returns the output descriptions of the transfer.
func (t *Transfer) Outputs() []Output {
	return t.wire.Outputs
}

// TotalOutputAmount returns the sum of the transfer's output amounts.
func (t *Transfer) TotalOutputAmount() int64 {
	total := int64(0)
	for _, out := range t.wire.Outputs {
		total += out.Amount
	}
	return total
}

// Verify checks the structural and cryptographic validity of the transfer:
// every input must carry a valid proof from its owner and amounts must be
// conserved. A transfer with no input is a valid issuance.
func (t *Transfer) Verify() error {
	totalIn := int64(0)
	for _, in := range t.wire.Inputs {
		if in.ID == "" {
			return errors.Trace(errors.Newf(
				"Invalid input: missing currency id"))
		}
		if in.Amount < 0 {
			return errors.Trace(errors.Newf(
				"Invalid input %s: negative amount %d", in.ID, in.Amount))
		}
		if err := in.CheckProof(); err != nil {
			return errors.Trace(err)
		}
		totalIn += in.Amount
	}

	totalOut := int64(0)
	for i, out := range t.wire.Outputs {
		if out.Amount < 0 {
			return errors.Trace(errors.Newf(
				"Invalid output %d: negative amount %d", i, out.Amount))
		}
		if _, err := decodeCertificate(out.Owner); err != nil {
			return errors.Trace(err)
		}
		totalOut += out.Amount
	}

	if len(t.wire.Inputs) > 0 && totalIn != totalOut {
		return errors.Trace(errors.Newf(
			"Amount not conserved: inputs=%d outputs=%d", totalIn, totalOut))
	}

	return nil
}

// MintOutputs mints the new currency units described by the transfer's
// outputs, assigning each a unique id and a proof from the provided signing
// key.
func (t *Transfer) MintOutputs(
	key *SigningKey,
	rng io.Reader,
) ([]Currency, error) {
	if key == nil {
		return nil, errors.Trace(errors.Newf(
			"No signing key to mint with"))
	}

	id := t.ID()
	minted := make([]Currency, 0, len(t.wire.Outputs))
	for i, out := range t.wire.Outputs {
		salt := make([]byte, 16)
		if _, err := io.ReadFull(rng, salt); err != nil {
			return nil, errors.Trace(err)
		}

		h := sha3.New256()
		fmt.Fprintf(h, "%s|%d|%s|%d|", id, i, out.Owner, out.Amount)
		h.Write(salt)

		currency := Currency{
			ID:     hex.EncodeToString(h.Sum(nil)),
			Owner:  out.Owner,
			Amount: out.Amount,
		}
		key.CertifyCurrency(&currency)
		minted = append(minted, currency)
	}

	return minted, nil
}

// digest returns the signed digest of a currency unit.
func (c *Currency) digest() []byte {
	h := sha3.Sum256([]byte(fmt.Sprintf(
		"currency|%s|%s|%d", c.ID, c.Owner, c.Amount)))
	return h[:]
}

// CheckProof verifies the unit's proof against its owner certificate.
func (c *Currency) CheckProof() error {
	pub, err := decodeCertificate(c.Owner)
	if err != nil {
		return errors.Trace(err)
	}
	proof, err := hex.DecodeString(c.Proof)
	if err != nil {
		return errors.Trace(errors.Newf(
			"Invalid proof for currency %s", c.ID))
	}
	if !ed25519.Verify(pub, c.digest(), proof) {
		return errors.Trace(errors.Newf(
			"Proof verification failed for currency %s", c.ID))
	}
	return nil
}

func decodeCertificate(
	owner string,
) (ed25519.PublicKey, error) {
	pub, err := hex.DecodeString(owner)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return nil, errors.Newf("Invalid owner certificate: %s", owner)
	}
	return ed25519.PublicKey(pub), nil
}
