package endpoint

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"

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
	// EndPtCreateSettlement settles a new transaction.
	EndPtCreateSettlement EndPtName = "CreateSettlement"
)

func init() {
	registrar[EndPtCreateSettlement] = NewCreateSettlement
}

// CreateSettlement settles a pre-validated transfer: it destroys the input
// units, mints the output units, records the lineage edges tying outputs to
// inputs and logs the exchange. All writes share one DB transaction so a
// settlement either applies fully or leaves the ledger untouched.
type CreateSettlement struct {
	UserKey  string
	Payload  string
	Transfer *transfer.Transfer
}

// NewCreateSettlement constructs and initialiezes the endpoint.
func NewCreateSettlement(
	r *http.Request,
) (Endpoint, error) {
	return &CreateSettlement{}, nil
}

// Validate validates the input parameters.
func (e *CreateSettlement) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)

	// Validate body.
	var req svc.Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.Trace(errors.NewUserErrorf(err,
			400, "transaction_payload_invalid",
			"The body of the request could not be decoded as JSON.",
		))
	}
	var payload string
	if err := req.Extract("transaction", &payload); err != nil {
		return errors.Trace(errors.NewUserErrorf(err,
			400, "transaction_payload_invalid",
			"The body of the request is missing the transaction payload.",
		))
	}
	e.Payload = payload

	// Validate transfer.
	t, err := ValidateTransfer(ctx, e.Payload)
	if err != nil {
		return errors.Trace(err)
	}
	if err := t.Verify(); err != nil {
		return errors.Trace(errors.NewUserErrorf(err,
			400, "transaction_invalid",
			"The transaction you provided failed validation: %s.",
			t.ID(),
		))
	}
	e.Transfer = t

	return nil
}

// Execute executes the endpoint.
func (e *CreateSettlement) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	transaction := e.Transfer.ID()
	inputs := e.Transfer.Inputs()

	// Destroy inputs. The conditional update is the decision point: a unit
	// concurrently spent by another settlement fails here and rolls the whole
	// settlement back.
	for _, in := range inputs {
		destroyed, err := model.DestroyCurrency(ctx,
			e.UserKey, in.ID, transaction, in.Owner)
		if err != nil {
			return nil, nil, errors.Trace(err) // 500
		}
		if !destroyed {
			currency, err := model.LoadCurrencyByID(ctx, e.UserKey, in.ID)
			if err != nil {
				return nil, nil, errors.Trace(err) // 500
			} else if currency != nil {
				return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
					402, "currency_destroyed",
					"The input currency you are trying to spend was already "+
						"destroyed: %s.",
					in.ID,
				))
			}

			// The unit's mint was not recorded locally (it was minted for
			// another user key); record it directly destroyed.
			if _, err := model.CreateCurrency(ctx,
				e.UserKey, in.ID, transaction,
				ledger.CyStDestroyed, in.Owner, in.Amount); err != nil {
				return nil, nil, errors.Trace(err) // 500
			}
		}
	}

	// Mint outputs.
	minted, err := e.Transfer.MintOutputs(ledger.GetSigningKey(ctx),
		rand.Reader)
	if err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	ids := []string{}
	total := int64(0)
	for _, out := range minted {
		currency, err := model.CreateCurrency(ctx,
			e.UserKey, out.ID, transaction,
			ledger.CyStCirculating, out.Owner, out.Amount)
		if err != nil {
			return nil, nil, errors.Trace(err) // 500
		}
		ids = append(ids, currency.ID)
		total += currency.Amount

		for _, in := range inputs {
			if _, err := model.CreateLineage(ctx,
				e.UserKey, out.ID, in.ID); err != nil {
				return nil, nil, errors.Trace(err) // 500
			}
		}
	}

	// Log the exchange last; a replayed transaction id fails here on the
	// primary key and undoes everything above.
	exchange, err := model.CreateExchange(ctx,
		e.UserKey, transaction,
		string(e.Transfer.Raw()), e.Payload, total)
	if err != nil {
		switch errors.Cause(err).(type) {
		case model.ErrUniqueConstraintViolation:
			return nil, nil, errors.Trace(errors.NewUserErrorf(err,
				402, "transaction_already_settled",
				"The transaction you are trying to settle was already "+
					"settled: %s.",
				transaction,
			))
		}
		return nil, nil, errors.Trace(err) // 500
	}

	db.Commit(ctx)

	return ptr.Int(http.StatusCreated), &svc.Resp{
		"settlement": format.JSONPtr(ledger.SettlementResource{
			Transaction: exchange.Transaction,
			Currencies:  ids,
			TotalAmount: exchange.Amount,
			Created: exchange.Created.UnixNano() /
				ledger.TimeResolutionNs,
		}),
	}, nil
}
