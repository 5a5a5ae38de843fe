package functional

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/test"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/errors"
)

func TestRetrieveCurrencyCirculating(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	issuance := u.Issue(t, 100)

	status, raw := u.Get(t,
		fmt.Sprintf("/currencies/%s", issuance.Currencies[0]))
	assert.Equal(t, 200, status)

	var currency ledger.CurrencyResource
	if err := raw.Extract("currency", &currency); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, issuance.Currencies[0], currency.ID)
	assert.Equal(t, issuance.Transaction, currency.Transaction)
	assert.Equal(t, ledger.CyStCirculating, currency.Status)
	assert.Equal(t, u.Key.Certificate(), currency.Owner)
	assert.Equal(t, int64(100), currency.Amount)
	assert.Nil(t, currency.DestroyedBy)
	assert.WithinDuration(t,
		time.Now(),
		time.Unix(0, currency.Created*ledger.TimeResolutionNs),
		test.PostLatency)
}

func TestRetrieveCurrencyDestroyed(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	issuance := u.Issue(t, 100)

	tr, err := transfer.New([]transfer.Currency{
		u.Input(issuance.Currencies[0], 100),
	}, []transfer.Output{
		{Owner: u.Key.Certificate(), Amount: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	status, _ := u.PostTransfer(t, tr)
	assert.Equal(t, 201, status)

	status, raw := u.Get(t,
		fmt.Sprintf("/currencies/%s", issuance.Currencies[0]))
	assert.Equal(t, 200, status)

	var currency ledger.CurrencyResource
	if err := raw.Extract("currency", &currency); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, ledger.CyStDestroyed, currency.Status)
	if assert.NotNil(t, currency.DestroyedBy) {
		assert.Equal(t, tr.ID(), *currency.DestroyedBy)
	}
	assert.True(t, currency.Updated >= currency.Created)
}

func TestRetrieveCurrencyNotFound(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	status, raw := u.Get(t, "/currencies/unknown")
	assert.Equal(t, 404, status)

	var e errors.ConcreteUserError
	if err := raw.Extract("error", &e); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "currency_not_found", e.Code)
}

func TestRetrieveCurrencyScopedByUserKey(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)
	other := l.CreateUser(t)

	issuance := u.Issue(t, 100)

	// Another caller cannot see this unit.
	status, _ := other.Get(t,
		fmt.Sprintf("/currencies/%s", issuance.Currencies[0]))
	assert.Equal(t, 404, status)
}
