package schemas

import "github.com/luo4lu/DCEP/lib/db"

const (
	exchangesSQL = `
CREATE TABLE IF NOT EXISTS exchanges(
  user_key VARCHAR(256) NOT NULL,
  transaction_id VARCHAR(256) NOT NULL,

  transfer TEXT NOT NULL,      -- structured transfer payload
  raw_transfer TEXT NOT NULL,  -- original encoded transfer
  amount NUMERIC(19) NOT NULL, -- total output amount
  created TIMESTAMP NOT NULL,

  PRIMARY KEY(user_key, transaction_id)
);
`
	exchangesCreatedIndexSQL = `
CREATE INDEX IF NOT EXISTS exchanges_user_key_created_idx
  ON exchanges(user_key, created);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"exchanges",
		exchangesSQL+exchangesCreatedIndexSQL,
	)
}
