package model

import (
	"context"
	"time"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
)

// windowFilters builds the filters for an optional half-open [begin, end)
// window on column.
func windowFilters(
	userKey string,
	column string,
	begin *time.Time,
	end *time.Time,
) *Filters {
	f := NewFilters(userKey)
	if begin != nil {
		f.Since(column, *begin)
	}
	if end != nil {
		f.Before(column, *end)
	}
	return f
}

// SumCurrencyAmountByStatus sums the amounts of the currency units with the
// given status that entered that status inside the optional [begin, end)
// window. The window applies to updated: a destroyed unit was created
// earlier, while a circulating unit has updated equal to created.
func SumCurrencyAmountByStatus(
	ctx context.Context,
	userKey string,
	status ledger.CyStatus,
	begin *time.Time,
	end *time.Time,
) (int64, error) {
	f := windowFilters(userKey, "updated", begin, end)
	f.Equal("status", status)

	ext := db.Ext(ctx)
	q := ext.Rebind(
		"SELECT COALESCE(SUM(amount), 0) FROM currencies" + f.Clause())

	var total int64
	if err := ext.QueryRowx(q, f.Args()...).Scan(&total); err != nil {
		return 0, errors.Trace(err)
	}
	return total, nil
}

// CountExchangesInWindow counts the exchange records created inside the
// optional [begin, end) window.
func CountExchangesInWindow(
	ctx context.Context,
	userKey string,
	begin *time.Time,
	end *time.Time,
) (int64, error) {
	return countTable(ctx, "exchanges",
		windowFilters(userKey, "created", begin, end))
}

// DailyCirculatingTotals sums the circulating amounts created on each of the
// 7 calendar days ending at now, bucketed from a single range scan so the
// query stays portable across drivers. Index 0 is the current day.
func DailyCirculatingTotals(
	ctx context.Context,
	userKey string,
	now time.Time,
) ([7]int64, error) {
	totals := [7]int64{}

	now = now.UTC()
	today := time.Date(
		now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -6)

	f := NewFilters(userKey)
	f.Equal("status", ledger.CyStCirculating)
	f.Since("created", start)

	ext := db.Ext(ctx)
	q := ext.Rebind("SELECT created, amount FROM currencies" + f.Clause())

	rows, err := ext.Queryx(q, f.Args()...)
	if err != nil {
		return totals, errors.Trace(err)
	}
	defer rows.Close()

	for rows.Next() {
		var created time.Time
		var amount int64
		if err := rows.Scan(&created, &amount); err != nil {
			return totals, errors.Trace(err)
		}
		day := int(today.Sub(created.UTC().Truncate(24*time.Hour)).Hours() / 24)
		if day < 0 || day > 6 {
			continue
		}
		totals[day] += amount
	}

	return totals, nil
}
