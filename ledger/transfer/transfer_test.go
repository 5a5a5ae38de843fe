package transfer

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testKey(t *testing.T) *SigningKey {
	key, err := NewSigningKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func testInput(t *testing.T, key *SigningKey, id string, amount int64) Currency {
	c := Currency{
		ID:     id,
		Owner:  key.Certificate(),
		Amount: amount,
	}
	key.SignCurrency(&c)
	return c
}

func TestParseRoundTrip(t *testing.T) {
	key := testKey(t)

	tr, err := New([]Currency{
		testInput(t, key, "in0", 30),
	}, []Output{
		{Owner: key.Certificate(), Amount: 30},
	})
	assert.Nil(t, err)

	parsed, err := Parse(tr.Raw())
	assert.Nil(t, err)

	assert.Equal(t, tr.ID(), parsed.ID())
	assert.Equal(t, tr.Inputs(), parsed.Inputs())
	assert.Equal(t, tr.Outputs(), parsed.Outputs())
	assert.Nil(t, parsed.Verify())
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.NotNil(t, err)

	// No output to mint.
	_, err = Parse([]byte(`{"inputs":[],"outputs":[],"nonce":"nonce_x"}`))
	assert.NotNil(t, err)

	// Missing nonce.
	_, err = Parse([]byte(`{"inputs":[],"outputs":[{"owner":"ab","amount":1}]}`))
	assert.NotNil(t, err)
}

func TestIDUniquePerNonce(t *testing.T) {
	key := testKey(t)
	outputs := []Output{{Owner: key.Certificate(), Amount: 10}}

	t0, err := New(nil, outputs)
	assert.Nil(t, err)
	t1, err := New(nil, outputs)
	assert.Nil(t, err)

	assert.NotEqual(t, t0.ID(), t1.ID())
}

func TestVerifyIssuance(t *testing.T) {
	key := testKey(t)

	// No input and unconstrained output amounts.
	tr, err := New(nil, []Output{
		{Owner: key.Certificate(), Amount: 100},
		{Owner: key.Certificate(), Amount: 50},
	})
	assert.Nil(t, err)
	assert.Nil(t, tr.Verify())
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	key := testKey(t)
	other := testKey(t)

	in := Currency{
		ID:     "in0",
		Owner:  key.Certificate(),
		Amount: 30,
	}
	other.SignCurrency(&in)

	tr, err := New([]Currency{in}, []Output{
		{Owner: key.Certificate(), Amount: 30},
	})
	assert.Nil(t, err)
	assert.NotNil(t, tr.Verify())
}

func TestVerifyRejectsTamperedAmount(t *testing.T) {
	key := testKey(t)

	in := testInput(t, key, "in0", 30)
	in.Amount = 300

	tr, err := New([]Currency{in}, []Output{
		{Owner: key.Certificate(), Amount: 300},
	})
	assert.Nil(t, err)
	assert.NotNil(t, tr.Verify())
}

func TestVerifyRejectsUnconservedAmounts(t *testing.T) {
	key := testKey(t)

	tr, err := New([]Currency{
		testInput(t, key, "in0", 30),
	}, []Output{
		{Owner: key.Certificate(), Amount: 40},
	})
	assert.Nil(t, err)
	assert.NotNil(t, tr.Verify())
}

func TestVerifyRejectsInvalidOwnerCertificate(t *testing.T) {
	key := testKey(t)

	tr, err := New([]Currency{
		testInput(t, key, "in0", 10),
	}, []Output{
		{Owner: "zz", Amount: 10},
	})
	assert.Nil(t, err)
	assert.NotNil(t, tr.Verify())
}

func TestMintOutputs(t *testing.T) {
	service := testKey(t)
	owner := testKey(t)

	tr, err := New(nil, []Output{
		{Owner: owner.Certificate(), Amount: 60},
		{Owner: owner.Certificate(), Amount: 40},
	})
	assert.Nil(t, err)

	minted, err := tr.MintOutputs(service, rand.Reader)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(minted))

	seen := map[string]bool{}
	for i, c := range minted {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
		assert.Equal(t, tr.Outputs()[i].Owner, c.Owner)
		assert.Equal(t, tr.Outputs()[i].Amount, c.Amount)
		assert.NotEqual(t, "", c.Issue)
		assert.Equal(t, "", c.Proof)
	}

	// Minting twice yields fresh unit ids thanks to the salt.
	again, err := tr.MintOutputs(service, rand.Reader)
	assert.Nil(t, err)
	assert.NotEqual(t, minted[0].ID, again[0].ID)
}

func TestMintOutputsRequiresKey(t *testing.T) {
	key := testKey(t)

	tr, err := New(nil, []Output{
		{Owner: key.Certificate(), Amount: 10},
	})
	assert.Nil(t, err)

	_, err = tr.MintOutputs(nil, rand.Reader)
	assert.NotNil(t, err)
}
