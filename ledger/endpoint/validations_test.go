package endpoint

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/lib/errors"
)

func assertUserError(
	t *testing.T,
	err error,
	status int,
	code string,
) {
	e := errors.ExtractUserError(err)
	if assert.NotNil(t, e) {
		assert.Equal(t, status, e.Status())
		assert.Equal(t, code, e.Code())
	}
}

func TestValidatePage(t *testing.T) {
	ctx := context.Background()

	page, err := ValidatePage(ctx, "")
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), *page)

	page, err = ValidatePage(ctx, "3")
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), *page)

	_, err = ValidatePage(ctx, "0")
	assertUserError(t, err, 400, "page_invalid")

	_, err = ValidatePage(ctx, "-1")
	assertUserError(t, err, 400, "page_invalid")

	_, err = ValidatePage(ctx, "abc")
	assertUserError(t, err, 400, "page_invalid")
}

func TestValidatePageSize(t *testing.T) {
	ctx := context.Background()

	pageSize, err := ValidatePageSize(ctx, "")
	assert.Nil(t, err)
	assert.Equal(t, uint64(20), *pageSize)

	pageSize, err = ValidatePageSize(ctx, "100")
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), *pageSize)

	_, err = ValidatePageSize(ctx, "101")
	assertUserError(t, err, 400, "page_size_invalid")

	_, err = ValidatePageSize(ctx, "0")
	assertUserError(t, err, 400, "page_size_invalid")
}

func TestValidateStatus(t *testing.T) {
	ctx := context.Background()

	status, err := ValidateStatus(ctx, "circulating")
	assert.Nil(t, err)
	assert.Equal(t, ledger.CyStCirculating, *status)

	status, err = ValidateStatus(ctx, "destroyed")
	assert.Nil(t, err)
	assert.Equal(t, ledger.CyStDestroyed, *status)

	_, err = ValidateStatus(ctx, "burned")
	assertUserError(t, err, 400, "status_invalid")
}

func TestValidateAmount(t *testing.T) {
	ctx := context.Background()

	amount, err := ValidateAmount(ctx, "100")
	assert.Nil(t, err)
	assert.Equal(t, int64(100), *amount)

	_, err = ValidateAmount(ctx, "-1")
	assertUserError(t, err, 400, "amount_invalid")

	_, err = ValidateAmount(ctx, "abc")
	assertUserError(t, err, 400, "amount_invalid")
}

func TestValidateTimestamp(t *testing.T) {
	ctx := context.Background()

	ts, err := ValidateTimestamp(ctx, "created_before", "1577836800000")
	assert.Nil(t, err)
	assert.Equal(t,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ts.UTC())

	_, err = ValidateTimestamp(ctx, "created_before", "-1")
	assertUserError(t, err, 400, "created_before_invalid")

	_, err = ValidateTimestamp(ctx, "begin", "abc")
	assertUserError(t, err, 400, "begin_invalid")
}

func TestValidateTransfer(t *testing.T) {
	ctx := context.Background()

	raw := []byte(`{"inputs":[],` +
		`"outputs":[{"owner":"ab","amount":10}],"nonce":"nonce_x"}`)
	tr, err := ValidateTransfer(ctx, hex.EncodeToString(raw))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(tr.Outputs()))

	_, err = ValidateTransfer(ctx, "not hex")
	assertUserError(t, err, 400, "transaction_payload_invalid")

	// Valid hex, invalid shape.
	_, err = ValidateTransfer(ctx,
		hex.EncodeToString([]byte(`{"outputs":[]}`)))
	assertUserError(t, err, 400, "transaction_payload_invalid")
}
