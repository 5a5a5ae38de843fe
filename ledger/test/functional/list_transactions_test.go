package functional

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/test"
)

func TestListTransactionsPagination(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	for i := 0; i < 7; i++ {
		u.Issue(t, int64(10*(i+1)))
	}

	seen := map[string]bool{}
	lastCreated := int64(0)
	for page := 1; page <= 3; page++ {
		status, raw := u.Get(t,
			fmt.Sprintf("/transactions?page=%d&page_size=3", page))
		assert.Equal(t, 200, status)

		var list ledger.TransactionListResource
		if err := raw.Extract("transactions", &list); err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, int64(7), list.Total)
		if page < 3 {
			assert.Equal(t, 3, len(list.Items))
		} else {
			assert.Equal(t, 1, len(list.Items))
		}

		for _, item := range list.Items {
			assert.False(t, seen[item.ID])
			seen[item.ID] = true
			if lastCreated != 0 {
				assert.True(t, item.Created <= lastCreated)
			}
			lastCreated = item.Created
		}
	}
	assert.Equal(t, 7, len(seen))
}

func TestListTransactionsFilters(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)

	s0 := u.Issue(t, 100)
	u.Issue(t, 200)

	// Amount filter.
	status, raw := u.Get(t, "/transactions?amount=100")
	assert.Equal(t, 200, status)

	var list ledger.TransactionListResource
	if err := raw.Extract("transactions", &list); err != nil {
		t.Fatal(err)
	}
	if assert.Equal(t, int64(1), list.Total) {
		assert.Equal(t, s0.Transaction, list.Items[0].ID)
		assert.Equal(t, int64(100), list.Items[0].TotalAmount)
	}

	// Prefix filter on the transaction id.
	status, raw = u.Get(t,
		fmt.Sprintf("/transactions?transaction_id_prefix=%s",
			s0.Transaction[:16]))
	assert.Equal(t, 200, status)
	if err := raw.Extract("transactions", &list); err != nil {
		t.Fatal(err)
	}
	if assert.Equal(t, int64(1), list.Total) {
		assert.Equal(t, s0.Transaction, list.Items[0].ID)
	}
}

func TestListTransactionsScopedByUserKey(
	t *testing.T,
) {
	l := test.CreateLedger(t)
	defer l.Close()
	u := l.CreateUser(t)
	other := l.CreateUser(t)

	u.Issue(t, 100)

	status, raw := other.Get(t, "/transactions")
	assert.Equal(t, 200, status)

	var list ledger.TransactionListResource
	if err := raw.Extract("transactions", &list); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(0), list.Total)
}
