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
	// EndPtListTransactions lists settled transactions.
	EndPtListTransactions EndPtName = "ListTransactions"
)

func init() {
	registrar[EndPtListTransactions] = NewListTransactions
}

// ListTransactions returns a page of the caller's settled transactions,
// newest first, optionally filtered by id prefix, amount and creation
// interval.
type ListTransactions struct {
	ListEndpoint
	UserKey string
	Filters *model.Filters
}

// NewListTransactions constructs and initialiezes the endpoint.
func NewListTransactions(
	r *http.Request,
) (Endpoint, error) {
	return &ListTransactions{}, nil
}

// Validate validates the input parameters.
func (e *ListTransactions) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)

	if err := e.ListEndpoint.Validate(r); err != nil {
		return errors.Trace(err)
	}

	query := r.URL.Query()
	f := model.NewFilters(e.UserKey)

	if v := query.Get("transaction_id_prefix"); v != "" {
		f.Prefix("transaction_id", v)
	}
	if v := query.Get("amount"); v != "" {
		amount, err := ValidateAmount(ctx, v)
		if err != nil {
			return errors.Trace(err)
		}
		f.Equal("amount", *amount)
	}
	if v := query.Get("created_after"); v != "" {
		t, err := ValidateTimestamp(ctx, "created_after", v)
		if err != nil {
			return errors.Trace(err)
		}
		f.Since("created", *t)
	}
	if v := query.Get("created_before"); v != "" {
		t, err := ValidateTimestamp(ctx, "created_before", v)
		if err != nil {
			return errors.Trace(err)
		}
		f.Before("created", *t)
	}
	e.Filters = f

	return nil
}

// Execute executes the endpoint.
func (e *ListTransactions) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	total, err := model.CountExchanges(ctx, e.Filters)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	exchanges, err := model.ListExchanges(ctx, e.Filters, e.Page, e.PageSize)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	items := []ledger.ExchangeResource{}
	for i := range exchanges {
		items = append(items, model.NewExchangeResource(ctx, &exchanges[i]))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"transactions": format.JSONPtr(ledger.TransactionListResource{
			Total:    total,
			Page:     e.Page,
			PageSize: e.PageSize,
			Items:    items,
		}),
	}, nil
}
