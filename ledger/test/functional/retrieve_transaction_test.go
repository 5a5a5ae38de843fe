package functional

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/test"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/errors"
)

func TestRetrieveTransactionSpend(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	issuance := u.Issue(t, 100)

	tr, err := transfer.New([]transfer.Currency{
		u.Input(issuance.Currencies[0], 100),
	}, []transfer.Output{
		{Owner: u.Key.Certificate(), Amount: 60},
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

	status, raw = u.Get(t, fmt.Sprintf("/transactions/%s", tr.ID()))
	assert.Equal(t, 200, status)

	var transaction ledger.TransactionResource
	if err := raw.Extract("transaction", &transaction); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, tr.ID(), transaction.ID)
	assert.Equal(t, int64(100), transaction.TotalAmount)

	if assert.Equal(t, 1, len(transaction.Inputs)) {
		assert.Equal(t, issuance.Currencies[0], transaction.Inputs[0].ID)
		assert.Equal(t, int64(100), transaction.Inputs[0].Amount)
	}

	if assert.Equal(t, 2, len(transaction.Outputs)) {
		outputs := map[string]int64{}
		for _, out := range transaction.Outputs {
			outputs[out.ID] = out.Amount
		}
		total := int64(0)
		for _, id := range settlement.Currencies {
			amount, ok := outputs[id]
			assert.True(t, ok)
			total += amount
		}
		assert.Equal(t, int64(100), total)
	}
}

func TestRetrieveTransactionIssuance(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	issuance := u.Issue(t, 100)

	status, raw := u.Get(t,
		fmt.Sprintf("/transactions/%s", issuance.Transaction))
	assert.Equal(t, 200, status)

	var transaction ledger.TransactionResource
	if err := raw.Extract("transaction", &transaction); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 0, len(transaction.Inputs))
	assert.Equal(t, 1, len(transaction.Outputs))
	assert.Equal(t, int64(100), transaction.TotalAmount)
}

func TestRetrieveTransactionForeignInput(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	// Spend a unit whose mint was never recorded locally; the stored
	// transfer still reports it as an input.
	input := u.Input("foreign", 25)
	tr, err := transfer.New([]transfer.Currency{input}, []transfer.Output{
		{Owner: u.Key.Certificate(), Amount: 25},
	})
	if err != nil {
		t.Fatal(err)
	}
	status, _ := u.PostTransfer(t, tr)
	assert.Equal(t, 201, status)

	status, raw := u.Get(t, fmt.Sprintf("/transactions/%s", tr.ID()))
	assert.Equal(t, 200, status)

	var transaction ledger.TransactionResource
	if err := raw.Extract("transaction", &transaction); err != nil {
		t.Fatal(err)
	}

	if assert.Equal(t, 1, len(transaction.Inputs)) {
		assert.Equal(t, "foreign", transaction.Inputs[0].ID)
	}
	assert.Equal(t, 1, len(transaction.Outputs))
}

func TestRetrieveTransactionNotFound(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	status, raw := u.Get(t, "/transactions/unknown")
	assert.Equal(t, 404, status)

	var e errors.ConcreteUserError
	if err := raw.Extract("error", &e); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "transaction_not_found", e.Code)
}
