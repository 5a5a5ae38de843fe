package endpoint

import (
	"context"
	"net/http"

	"goji.io/pat"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/model"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/format"
	"github.com/luo4lu/DCEP/lib/ptr"
	"github.com/luo4lu/DCEP/lib/svc"
)

const (
	// EndPtRetrieveCurrency retrieves a currency unit.
	EndPtRetrieveCurrency EndPtName = "RetrieveCurrency"
)

func init() {
	registrar[EndPtRetrieveCurrency] = NewRetrieveCurrency
}

// RetrieveCurrency retrieves a currency unit based on its id, resolving the
// transaction that destroyed it if the unit was spent.
type RetrieveCurrency struct {
	UserKey string
	ID      string
}

// NewRetrieveCurrency constructs and initialiezes the endpoint.
func NewRetrieveCurrency(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveCurrency{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveCurrency) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)
	e.ID = pat.Param(r, "currency")

	return nil
}

// Execute executes the endpoint.
func (e *RetrieveCurrency) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	currency, err := model.LoadCurrencyByID(ctx, e.UserKey, e.ID)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	} else if currency == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "currency_not_found",
			"The currency you are trying to retrieve does not exist: %s.",
			e.ID,
		))
	}

	// A destroyed unit carries the id of the settlement that consumed it;
	// it is only surfaced when a lineage edge ties the unit to an output.
	var destroyedBy *string
	if currency.Status == ledger.CyStDestroyed {
		lineage, err := model.LoadNewestLineageByInput(ctx, e.UserKey, e.ID)
		if err != nil {
			return nil, nil, errors.Trace(err) // 500
		}
		if lineage != nil {
			destroyedBy = ptr.Str(currency.Transaction)
		}
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"currency": format.JSONPtr(model.NewCurrencyResource(ctx,
			currency, destroyedBy)),
	}, nil
}
