package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
)

// Exchange represents one settled transfer in the exchange log: the transfer
// in structured and raw encoded form along with the total amount minted.
// Exactly one row exists per settled transaction id and user key; rows are
// written last within the settlement transaction and never mutated.
type Exchange struct {
	UserKey     string `db:"user_key"`
	Transaction string `db:"transaction_id"`

	Transfer    string `db:"transfer"`     // structured transfer payload
	RawTransfer string `db:"raw_transfer"` // original encoded transfer
	Amount      int64
	Created     time.Time
}

// CreateExchange creates and stores a new Exchange object.
func CreateExchange(
	ctx context.Context,
	userKey string,
	transaction string,
	transfer string,
	rawTransfer string,
	amount int64,
) (*Exchange, error) {
	exchange := Exchange{
		UserKey:     userKey,
		Transaction: transaction,

		Transfer:    transfer,
		RawTransfer: rawTransfer,
		Amount:      amount,
		Created:     time.Now().UTC(),
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO exchanges
  (user_key, transaction_id, transfer, raw_transfer, amount, created)
VALUES
  (:user_key, :transaction_id, :transfer, :raw_transfer, :amount, :created)
`, exchange); err != nil {
		switch err := err.(type) {
		case *pq.Error:
			if err.Code.Name() == "unique_violation" {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		case sqlite3.Error:
			if err.ExtendedCode == sqlite3.ErrConstraintUnique ||
				err.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		}
		return nil, errors.Trace(err)
	}

	return &exchange, nil
}

// LoadExchangeByTransaction attempts to load the exchange record for the
// given transaction id and user key.
func LoadExchangeByTransaction(
	ctx context.Context,
	userKey string,
	transaction string,
) (*Exchange, error) {
	exchange := Exchange{
		UserKey:     userKey,
		Transaction: transaction,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM exchanges
WHERE user_key = :user_key
  AND transaction_id = :transaction_id
`, exchange); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&exchange); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &exchange, nil
}

// NewExchangeResource generates a new resource.
func NewExchangeResource(
	ctx context.Context,
	exchange *Exchange,
) ledger.ExchangeResource {
	return ledger.ExchangeResource{
		ID:          exchange.Transaction,
		TotalAmount: exchange.Amount,
		Created:     exchange.Created.UnixNano() / ledger.TimeResolutionNs,
	}
}
