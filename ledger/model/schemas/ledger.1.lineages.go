package schemas

import "github.com/luo4lu/DCEP/lib/db"

const (
	lineagesSQL = `
CREATE TABLE IF NOT EXISTS lineages(
  user_key VARCHAR(256) NOT NULL,
  output_id VARCHAR(256) NOT NULL,  -- the minted unit
  input_id VARCHAR(256) NOT NULL,   -- the spent unit it draws value from

  created TIMESTAMP NOT NULL,

  PRIMARY KEY(user_key, output_id, input_id)
);
`
	lineagesInputIndexSQL = `
CREATE INDEX IF NOT EXISTS lineages_user_key_input_id_idx
  ON lineages(user_key, input_id);
`
)

func init() {
	db.RegisterSchema(
		"ledger",
		"lineages",
		lineagesSQL+lineagesInputIndexSQL,
	)
}
