package ledger

import (
	"database/sql/driver"

	"github.com/luo4lu/DCEP/lib/errors"
)

// CyStatus is the lifecycle status of a currency unit.
type CyStatus string

const (
	// CyStCirculating marks a unit as spendable by a future settlement.
	CyStCirculating CyStatus = "circulating"
	// CyStDestroyed marks a unit as consumed; it can never be spent again.
	CyStDestroyed CyStatus = "destroyed"
)

// Value implements driver.Valuer.
func (s CyStatus) Value() (value driver.Value, err error) {
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *CyStatus) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*s = CyStatus(src)
	case string:
		*s = CyStatus(src)
	default:
		return errors.Newf(
			"Incompatible type for CyStatus with value: %q", src)
	}

	return nil
}
