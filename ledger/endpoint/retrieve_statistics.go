package endpoint

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/model"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/format"
	"github.com/luo4lu/DCEP/lib/ptr"
	"github.com/luo4lu/DCEP/lib/svc"
)

const (
	// EndPtRetrieveStatistics retrieves aggregate ledger statistics.
	EndPtRetrieveStatistics EndPtName = "RetrieveStatistics"
)

func init() {
	registrar[EndPtRetrieveStatistics] = NewRetrieveStatistics
}

// RetrieveStatistics aggregates circulating and destroyed totals, transaction
// counts and per-day circulating totals over an optional [begin, end) window.
// Aggregates are independent so they run in parallel on the pool.
type RetrieveStatistics struct {
	UserKey string
	Begin   *time.Time
	End     *time.Time
}

// NewRetrieveStatistics constructs and initialiezes the endpoint.
func NewRetrieveStatistics(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveStatistics{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveStatistics) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.UserKey = authentication.Get(ctx)

	// Validate begin.
	if v := r.URL.Query().Get("begin"); v != "" {
		begin, err := ValidateTimestamp(ctx, "begin", v)
		if err != nil {
			return errors.Trace(err)
		}
		e.Begin = begin
	}

	// Validate end.
	if v := r.URL.Query().Get("end"); v != "" {
		end, err := ValidateTimestamp(ctx, "end", v)
		if err != nil {
			return errors.Trace(err)
		}
		e.End = end
	}

	return nil
}

// Execute executes the endpoint.
func (e *RetrieveStatistics) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	var circulating, destroyed, count int64
	var daily [7]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		circulating, err = model.SumCurrencyAmountByStatus(gctx,
			e.UserKey, ledger.CyStCirculating, e.Begin, e.End)
		return errors.Trace(err)
	})
	g.Go(func() error {
		var err error
		destroyed, err = model.SumCurrencyAmountByStatus(gctx,
			e.UserKey, ledger.CyStDestroyed, e.Begin, e.End)
		return errors.Trace(err)
	})
	g.Go(func() error {
		var err error
		count, err = model.CountExchangesInWindow(gctx,
			e.UserKey, e.Begin, e.End)
		return errors.Trace(err)
	})
	g.Go(func() error {
		var err error
		daily, err = model.DailyCirculatingTotals(gctx,
			e.UserKey, time.Now())
		return errors.Trace(err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Trace(err) // 500
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"statistics": format.JSONPtr(ledger.StatisticsResource{
			CirculatingTotal: circulating,
			DestroyedTotal:   destroyed,
			TransactionCount: count,
			DailyTotals:      daily,
		}),
	}, nil
}
