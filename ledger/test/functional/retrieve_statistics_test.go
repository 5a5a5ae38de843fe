package functional

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/test"
	"github.com/luo4lu/DCEP/ledger/transfer"
)

func TestRetrieveStatistics(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	issuance := u.Issue(t, 40)

	// Space the two settlements out so a window can isolate the second one.
	time.Sleep(250 * time.Millisecond)

	tr, err := transfer.New([]transfer.Currency{
		u.Input(issuance.Currencies[0], 40),
	}, []transfer.Output{
		{Owner: u.Key.Certificate(), Amount: 40},
	})
	if err != nil {
		t.Fatal(err)
	}
	status, raw := u.PostTransfer(t, tr)
	assert.Equal(t, 201, status)

	var settlement ledger.SettlementResource
	if err := raw.Extract("settlement", &settlement); err != nil {
		t.Fatal(err)
	}

	// Unwindowed statistics cover both settlements.
	status, raw = u.Get(t, "/statistics")
	assert.Equal(t, 200, status)

	var stats ledger.StatisticsResource
	if err := raw.Extract("statistics", &stats); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(40), stats.CirculatingTotal)
	assert.Equal(t, int64(40), stats.DestroyedTotal)
	assert.Equal(t, int64(2), stats.TransactionCount)

	// The spend's output is the only circulating unit created today.
	assert.Equal(t, int64(40), stats.DailyTotals[0])
	for i := 1; i < 7; i++ {
		assert.Equal(t, int64(0), stats.DailyTotals[i])
	}

	// A window around the second settlement only sees its output mint and
	// input destruction.
	status, raw = u.Get(t, fmt.Sprintf("/statistics?begin=%d&end=%d",
		settlement.Created-100, settlement.Created+100))
	assert.Equal(t, 200, status)
	if err := raw.Extract("statistics", &stats); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(40), stats.CirculatingTotal)
	assert.Equal(t, int64(40), stats.DestroyedTotal)
	assert.Equal(t, int64(1), stats.TransactionCount)

	// A window before the first settlement is empty.
	status, raw = u.Get(t, fmt.Sprintf("/statistics?end=%d",
		settlement.Created-100000))
	assert.Equal(t, 200, status)
	if err := raw.Extract("statistics", &stats); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(0), stats.CirculatingTotal)
	assert.Equal(t, int64(0), stats.DestroyedTotal)
	assert.Equal(t, int64(0), stats.TransactionCount)
}

func TestRetrieveStatisticsScopedByUserKey(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)
	other := l.CreateUser(t)

	u.Issue(t, 100)

	status, raw := other.Get(t, "/statistics")
	assert.Equal(t, 200, status)

	var stats ledger.StatisticsResource
	if err := raw.Extract("statistics", &stats); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(0), stats.CirculatingTotal)
	assert.Equal(t, int64(0), stats.TransactionCount)
}
