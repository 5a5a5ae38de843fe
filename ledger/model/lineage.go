package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/errors"
)

// Lineage represents one provenance edge: the value of the output unit traces
// back through the input unit it was settled against. Edges are written once
// per (output, input) pair of a settlement and are immutable.
type Lineage struct {
	UserKey  string `db:"user_key"`
	OutputID string `db:"output_id"`
	InputID  string `db:"input_id"`

	Created time.Time
}

// CreateLineage creates and stores a new Lineage edge.
func CreateLineage(
	ctx context.Context,
	userKey string,
	outputID string,
	inputID string,
) (*Lineage, error) {
	lineage := Lineage{
		UserKey:  userKey,
		OutputID: outputID,
		InputID:  inputID,
		Created:  time.Now().UTC(),
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO lineages
  (user_key, output_id, input_id, created)
VALUES
  (:user_key, :output_id, :input_id, :created)
`, lineage); err != nil {
		return nil, errors.Trace(err)
	}

	return &lineage, nil
}

// LoadNewestLineageByInput attempts to load the most recent lineage edge for
// which the given unit was an input. A spent input may be linked to several
// outputs of the same settlement; any edge resolves the same destroying
// transaction so one is enough.
func LoadNewestLineageByInput(
	ctx context.Context,
	userKey string,
	inputID string,
) (*Lineage, error) {
	lineage := Lineage{
		UserKey: userKey,
		InputID: inputID,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM lineages
WHERE user_key = :user_key
  AND input_id = :input_id
ORDER BY created DESC
LIMIT 1
`, lineage); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&lineage); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &lineage, nil
}

// LoadLineagesByInput loads all lineage edges for which the given unit was an
// input.
func LoadLineagesByInput(
	ctx context.Context,
	userKey string,
	inputID string,
) ([]Lineage, error) {
	query := Lineage{
		UserKey: userKey,
		InputID: inputID,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM lineages
WHERE user_key = :user_key
  AND input_id = :input_id
ORDER BY created ASC
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	lineages := []Lineage{}
	for rows.Next() {
		lineage := Lineage{}
		if err := rows.StructScan(&lineage); err != nil {
			return nil, errors.Trace(err)
		}
		lineages = append(lineages, lineage)
	}

	return lineages, nil
}
