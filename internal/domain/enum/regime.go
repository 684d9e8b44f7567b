package enum

import (
	"database/sql/driver"
	"errors"
)

// Regime distinguishes a GST tax invoice from a plain cash bill. It is
// independent from whether any individual line carries a nonzero GST
// percentage: the regime gates GSTIN collection and invoice layout,
// while the line scan decides the actual tax math.
type Regime string

const (
	RegimeGST    Regime = "gst"
	RegimeNonGST Regime = "non_gst"
)

// Valid reports whether the regime is one of the known values.
func (r Regime) Valid() bool {
	return r == RegimeGST || r == RegimeNonGST
}

func (r Regime) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, errors.New("invalid bill regime: " + string(r))
	}
	return string(r), nil
}

func (r *Regime) Scan(value interface{}) error {
	if value == nil {
		*r = RegimeNonGST
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = Regime(v)
	case []byte:
		*r = Regime(v)
	}
	return nil
}
