package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
)

// Filters folds named optional predicates into a WHERE clause with positional
// parameters. Caller-supplied values only ever travel as bound arguments,
// never as query text; prefix matching binds an escaped LIKE pattern.
type Filters struct {
	conds []string
	args  []interface{}
}

// NewFilters returns a Filters seeded with the mandatory user key scope.
func NewFilters(
	userKey string,
) *Filters {
	f := &Filters{}
	f.Equal("user_key", userKey)
	return f
}

// Equal adds an exact match predicate on column.
func (f *Filters) Equal(
	column string,
	value interface{},
) *Filters {
	f.conds = append(f.conds, fmt.Sprintf("%s = ?", column))
	f.args = append(f.args, value)
	return f
}

// Prefix adds a prefix match predicate on column. The prefix is escaped and
// bound as a LIKE pattern parameter.
func (f *Filters) Prefix(
	column string,
	prefix string,
) *Filters {
	f.conds = append(f.conds, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column))
	f.args = append(f.args, escapeLikePattern(prefix)+"%")
	return f
}

// Since adds a half-open interval lower bound predicate on column
// (column >= t).
func (f *Filters) Since(
	column string,
	t time.Time,
) *Filters {
	f.conds = append(f.conds, fmt.Sprintf("%s >= ?", column))
	f.args = append(f.args, t)
	return f
}

// Before adds a half-open interval upper bound predicate on column
// (column < t).
func (f *Filters) Before(
	column string,
	t time.Time,
) *Filters {
	f.conds = append(f.conds, fmt.Sprintf("%s < ?", column))
	f.args = append(f.args, t)
	return f
}

// Clause returns the assembled WHERE clause.
func (f *Filters) Clause() string {
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns the positional arguments matching Clause, with extra appended
// at the end.
func (f *Filters) Args(
	extra ...interface{},
) []interface{} {
	args := make([]interface{}, 0, len(f.args)+len(extra))
	args = append(args, f.args...)
	args = append(args, extra...)
	return args
}

// escapeLikePattern escapes the LIKE metacharacters of s so that it matches
// literally inside a pattern.
func escapeLikePattern(
	s string,
) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// countTable counts the rows of table matching the filters.
func countTable(
	ctx context.Context,
	table string,
	f *Filters,
) (int64, error) {
	ext := db.Ext(ctx)
	q := ext.Rebind("SELECT COUNT(*) FROM " + table + f.Clause())

	var total int64
	if err := ext.QueryRowx(q, f.Args()...).Scan(&total); err != nil {
		return 0, errors.Trace(err)
	}
	return total, nil
}

// CountCurrencies counts the currency units matching the filters.
func CountCurrencies(
	ctx context.Context,
	f *Filters,
) (int64, error) {
	return countTable(ctx, "currencies", f)
}

// ListCurrencies loads one page of currency units matching the filters,
// ordered newest first. Pages are 1-indexed.
func ListCurrencies(
	ctx context.Context,
	f *Filters,
	page uint64,
	pageSize uint64,
) ([]Currency, error) {
	ext := db.Ext(ctx)
	q := ext.Rebind("SELECT * FROM currencies" + f.Clause() +
		" ORDER BY created DESC LIMIT ? OFFSET ?")

	rows, err := ext.Queryx(q, f.Args(pageSize, (page-1)*pageSize)...)
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

// CountExchanges counts the exchange records matching the filters.
func CountExchanges(
	ctx context.Context,
	f *Filters,
) (int64, error) {
	return countTable(ctx, "exchanges", f)
}

// ListExchanges loads one page of exchange records matching the filters,
// ordered newest first. Pages are 1-indexed.
func ListExchanges(
	ctx context.Context,
	f *Filters,
	page uint64,
	pageSize uint64,
) ([]Exchange, error) {
	ext := db.Ext(ctx)
	q := ext.Rebind("SELECT * FROM exchanges" + f.Clause() +
		" ORDER BY created DESC LIMIT ? OFFSET ?")

	rows, err := ext.Queryx(q, f.Args(pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	exchanges := []Exchange{}
	for rows.Next() {
		exchange := Exchange{}
		if err := rows.StructScan(&exchange); err != nil {
			return nil, errors.Trace(err)
		}
		exchanges = append(exchanges, exchange)
	}

	return exchanges, nil
}
