package schemas

import "github.com/luo4lu/DCEP/lib/db"

const (
	currenciesSQL = `
CREATE TABLE IF NOT EXISTS currencies(
  user_key VARCHAR(256) NOT NULL,        -- the owning caller's user key
  currency_id VARCHAR(256) NOT NULL,
  transaction_id VARCHAR(256) NOT NULL,  -- the settlement that last touched
                                         -- this unit

  status VARCHAR(32) NOT NULL,           -- circulating, destroyed
  owner VARCHAR(1024) NOT NULL,          -- the holder's certificate
  amount NUMERIC(19) NOT NULL,
  created TIMESTAMP NOT NULL,
  updated TIMESTAMP NOT NULL,

  PRIMARY KEY(user_key, currency_id)
);
`
	currenciesCreatedIndexSQL = `
CREATE INDEX IF NOT EXISTS currencies_user_key_created_idx
  ON currencies(user_key, created);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"currencies",
		currenciesSQL+currenciesCreatedIndexSQL,
	)
}
