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

// Currency represents a currency unit record. Units are created circulating
// when minted as settlement outputs and transition to destroyed exactly once,
// when consumed as an input by a later settlement. Records are scoped by the
// caller's user key and never deleted.
type Currency struct {
	UserKey     string `db:"user_key"`
	ID          string `db:"currency_id"`
	Transaction string `db:"transaction_id"`

	Status  ledger.CyStatus
	Owner   string
	Amount  int64
	Created time.Time
	Updated time.Time
}

// CreateCurrency creates and stores a new Currency object.
func CreateCurrency(
	ctx context.Context,
	userKey string,
	id string,
	transaction string,
	status ledger.CyStatus,
	owner string,
	amount int64,
) (*Currency, error) {
	now := time.Now().UTC()
	currency := Currency{
		UserKey:     userKey,
		ID:          id,
		Transaction: transaction,

		Status:  status,
		Owner:   owner,
		Amount:  amount,
		Created: now,
		Updated: now,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO currencies
  (user_key, currency_id, transaction_id, status, owner, amount,
   created, updated)
VALUES
  (:user_key, :currency_id, :transaction_id, :status, :owner, :amount,
   :created, :updated)
`, currency); err != nil {
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

	return &currency, nil
}

// DestroyCurrency transitions a unit from circulating to destroyed on behalf
// of the provided settlement. The status check and the write are one
// conditional update so that two settlements racing on the same unit cannot
// both succeed; it returns false when no circulating row was updated.
func DestroyCurrency(
	ctx context.Context,
	userKey string,
	id string,
	transaction string,
	owner string,
) (bool, error) {
	ext := db.Ext(ctx)
	q := ext.Rebind(`
UPDATE currencies
SET status = ?, owner = ?, transaction_id = ?, updated = ?
WHERE user_key = ?
  AND currency_id = ?
  AND status = ?
`)
	res, err := ext.Exec(q,
		ledger.CyStDestroyed, owner, transaction, time.Now().UTC(),
		userKey, id, ledger.CyStCirculating)
	if err != nil {
		return false, errors.Trace(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Trace(err)
	}

	return affected > 0, nil
}

// LoadCurrencyByID attempts to load the currency unit with the given id for
// the given user key.
func LoadCurrencyByID(
	ctx context.Context,
	userKey string,
	id string,
) (*Currency, error) {
	currency := Currency{
		UserKey: userKey,
		ID:      id,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM currencies
WHERE user_key = :user_key
  AND currency_id = :currency_id
`, currency); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&currency); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &currency, nil
}

// LoadCurrenciesByTransaction loads all currency units carrying the given
// transaction id for the given user key.
func LoadCurrenciesByTransaction(
	ctx context.Context,
	userKey string,
	transaction string,
) ([]Currency, error) {
	query := Currency{
		UserKey:     userKey,
		Transaction: transaction,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM currencies
WHERE user_key = :user_key
  AND transaction_id = :transaction_id
ORDER BY created ASC
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	currencies := []Currency{}
	for rows.Next() {
		currency := Currency{}
		if err := rows.StructScan(&currency); err != nil {
			return nil, errors.Trace(err)
		}
		currencies = append(currencies, currency)
	}

	return currencies, nil
}

// NewCurrencyResource generates a new resource.
func NewCurrencyResource(
	ctx context.Context,
	currency *Currency,
	destroyedBy *string,
) ledger.CurrencyResource {
	return ledger.CurrencyResource{
		ID:          currency.ID,
		Transaction: currency.Transaction,
		Status:      currency.Status,
		Owner:       currency.Owner,
		Amount:      currency.Amount,
		Created:     currency.Created.UnixNano() / ledger.TimeResolutionNs,
		Updated:     currency.Updated.UnixNano() / ledger.TimeResolutionNs,
		DestroyedBy: destroyedBy,
	}
}
