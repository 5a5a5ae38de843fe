package endpoint

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/errors"
)

// ValidateTransfer validates and parses an encoded transfer payload.
func ValidateTransfer(
	ctx context.Context,
	payload string,
) (*transfer.Transfer, error) {
	raw, err := hex.DecodeString(payload)
	if err != nil {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "transaction_payload_invalid",
			"The transaction you provided is not a valid hex-encoded "+
				"transfer payload.",
		))
	}

	t, err := transfer.Parse(raw)
	if err != nil {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "transaction_payload_invalid",
			"The transaction you provided could not be decoded as a "+
				"transfer.",
		))
	}

	return t, nil
}

// ValidatePage validates a paging page number.
func ValidatePage(
	ctx context.Context,
	page string,
) (*uint64, error) {
	if page == "" {
		p := uint64(1)
		return &p, nil
	}

	p, err := strconv.ParseUint(page, 10, 64)
	if err != nil || p < 1 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "page_invalid",
			"The paging page provided is invalid: %s. Pages must be "+
				"integers starting at 1.",
			page,
		))
	}

	return &p, nil
}

// ValidatePageSize validates a paging page size.
func ValidatePageSize(
	ctx context.Context,
	pageSize string,
) (*uint64, error) {
	if pageSize == "" {
		s := uint64(20)
		return &s, nil
	}

	s, err := strconv.ParseUint(pageSize, 10, 64)
	if err != nil || s < 1 || s > 100 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "page_size_invalid",
			"The paging page_size provided is invalid: %s. Page sizes must "+
				"be integers between 1 and 100.",
			pageSize,
		))
	}

	return &s, nil
}

// ValidateStatus validates a currency status filter.
func ValidateStatus(
	ctx context.Context,
	status string,
) (*ledger.CyStatus, error) {
	switch status {
	case string(ledger.CyStCirculating):
		s := ledger.CyStCirculating
		return &s, nil
	case string(ledger.CyStDestroyed):
		s := ledger.CyStDestroyed
		return &s, nil
	}

	return nil, errors.Trace(errors.NewUserErrorf(nil,
		400, "status_invalid",
		"The status you provided is invalid: %s. It can be either "+
			"circulating or destroyed.",
		status,
	))
}

// ValidateAmount validates an amount filter.
func ValidateAmount(
	ctx context.Context,
	amount string,
) (*int64, error) {
	a, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || a < 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "amount_invalid",
			"The amount you provided is invalid: %s. Amounts must be "+
				"positive integers expressed in the smallest currency unit.",
			amount,
		))
	}

	return &a, nil
}

// ValidateTimestamp validates a timestamp parameter expressed as unix time in
// milliseconds, the resolution used across the API.
func ValidateTimestamp(
	ctx context.Context,
	name string,
	value string,
) (*time.Time, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil || v < 0 {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, name+"_invalid",
			"The %s value provided is invalid: %s. Timestamps must be "+
				"positive integers representing a unix time in milliseconds.",
			name, value,
		))
	}
	converted := time.Unix(0, v*ledger.TimeResolutionNs)

	return &converted, nil
}
