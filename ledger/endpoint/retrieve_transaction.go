package endpoint

import (
	"context"
	"net/http"

	"goji.io/pat"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/model"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/format"
	"github.com/luo4lu/DCEP/lib/ptr"
	"github.com/luo4lu/DCEP/lib/svc"
)

const (
	// EndPtRetrieveTransaction retrieves a settled transaction.
	EndPtRetrieveTransaction EndPtName = "RetrieveTransaction"
)

func init() {
	registrar[EndPtRetrieveTransaction] = NewRetrieveTransaction
}

// RetrieveTransaction retrieves a settled transaction based on its id,
// reconstructing its inputs and outputs from the exchange log.
type RetrieveTransaction struct {
	UserKey string
	ID      string
}

// NewRetrieveTransaction constructs and initialiezes the endpoint.
func NewRetrieveTransaction(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveTransaction{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveTransaction) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)
	e.ID = pat.Param(r, "transaction")

	return nil
}

// Execute executes the endpoint.
func (e *RetrieveTransaction) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	exchange, err := model.LoadExchangeByTransaction(ctx, e.UserKey, e.ID)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	} else if exchange == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "transaction_not_found",
			"The transaction you are trying to retrieve does not exist: %s.",
			e.ID,
		))
	}

	// The stored transfer is authoritative for inputs: it carries units whose
	// mint was never recorded locally.
	t, err := transfer.Parse([]byte(exchange.Transfer))
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	inputs := []ledger.TransactionEntryResource{}
	inputIDs := map[string]bool{}
	for _, in := range t.Inputs() {
		inputs = append(inputs, ledger.TransactionEntryResource{
			ID:     in.ID,
			Amount: in.Amount,
		})
		inputIDs[in.ID] = true
	}

	currencies, err := model.LoadCurrenciesByTransaction(ctx, e.UserKey, e.ID)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	outputs := []ledger.TransactionEntryResource{}
	for _, currency := range currencies {
		if inputIDs[currency.ID] {
			continue
		}
		outputs = append(outputs, ledger.TransactionEntryResource{
			ID:     currency.ID,
			Amount: currency.Amount,
		})
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"transaction": format.JSONPtr(ledger.TransactionResource{
			ID:          exchange.Transaction,
			Inputs:      inputs,
			Outputs:     outputs,
			TotalAmount: exchange.Amount,
			Created: exchange.Created.UnixNano() /
				ledger.TimeResolutionNs,
		}),
	}, nil
}
