package endpoint

import (
	"context"
	"net/http"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/model"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/format"
	"github.com/luo4lu/DCEP/lib/ptr"
	"github.com/luo4lu/DCEP/lib/svc"
)

const (
	// EndPtListCurrencies lists currency units.
	EndPtListCurrencies EndPtName = "ListCurrencies"
)

func init() {
	registrar[EndPtListCurrencies] = NewListCurrencies
}

// ListCurrencies returns a page of the caller's currency units, newest first,
// optionally filtered by id, id prefix, status, amount and timestamp
// intervals.
type ListCurrencies struct {
	ListEndpoint
	UserKey string
	Filters *model.Filters
}

// NewListCurrencies constructs and initialiezes the endpoint.
func NewListCurrencies(
	r *http.Request,
) (Endpoint, error) {
	return &ListCurrencies{}, nil
}

// Validate validates the input parameters.
func (e *ListCurrencies) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)

	if err := e.ListEndpoint.Validate(r); err != nil {
		return errors.Trace(err)
	}

	query := r.URL.Query()
	f := model.NewFilters(e.UserKey)

	if v := query.Get("currency_id"); v != "" {
		f.Equal("currency_id", v)
	}
	if v := query.Get("currency_id_prefix"); v != "" {
		f.Prefix("currency_id", v)
	}
	if v := query.Get("status"); v != "" {
		status, err := ValidateStatus(ctx, v)
		if err != nil {
			return errors.Trace(err)
		}
		f.Equal("status", *status)
	}
	if v := query.Get("amount"); v != "" {
		amount, err := ValidateAmount(ctx, v)
		if err != nil {
			return errors.Trace(err)
		}
		f.Equal("amount", *amount)
	}
	for _, p := range []struct {
		param  string
		column string
		upper  bool
	}{
		{"created_after", "created", false},
		{"created_before", "created", true},
		{"updated_after", "updated", false},
		{"updated_before", "updated", true},
	} {
		if v := query.Get(p.param); v != "" {
			t, err := ValidateTimestamp(ctx, p.param, v)
			if err != nil {
				return errors.Trace(err)
			}
			if p.upper {
				f.Before(p.column, *t)
			} else {
				f.Since(p.column, *t)
			}
		}
	}
	e.Filters = f

	return nil
}

// Execute executes the endpoint.
func (e *ListCurrencies) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	total, err := model.CountCurrencies(ctx, e.Filters)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	currencies, err := model.ListCurrencies(ctx,
		e.Filters, e.Page, e.PageSize)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	items := []ledger.CurrencyResource{}
	for i := range currencies {
		items = append(items,
			model.NewCurrencyResource(ctx, &currencies[i], nil))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"currencies": format.JSONPtr(ledger.CurrencyListResource{
			Total:    total,
			Page:     e.Page,
			PageSize: e.PageSize,
			Items:    items,
		}),
	}, nil
}
