package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StatValue is a box-score cell. A blank cell is NaN, so that rolling means
// skip it instead of averaging in a zero.
type StatValue float64

// Missing returns the value of a blank cell.
func Missing() StatValue {
	return StatValue(math.NaN())
}

// Present reports whether the cell held a value.
func (v StatValue) Present() bool {
	return !math.IsNaN(float64(v))
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Blank cells become NaN.
func (v *StatValue) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*v = Missing()
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("stat value %q: %w", s, err)
	}
	*v = StatValue(f)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller. NaN is written as a blank cell.
func (v StatValue) MarshalCSV() (string, error) {
	if !v.Present() {
		return "", nil
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
}

// Scan implements sql.Scanner. NULL becomes NaN.
func (v *StatValue) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*v = Missing()
	case float64:
		*v = StatValue(x)
	case float32:
		*v = StatValue(x)
	case int64:
		*v = StatValue(x)
	case []byte:
		return v.UnmarshalCSV(string(x))
	case string:
		return v.UnmarshalCSV(x)
	default:
		return fmt.Errorf("stat value: cannot scan %T", src)
	}
	return nil
}

// Value implements driver.Valuer. NaN is stored as NULL.
func (v StatValue) Value() (driver.Value, error) {
	if !v.Present() {
		return nil, nil
	}
	return float64(v), nil
}

// StatValueFromPtr converts a nullable column; nil is a blank cell.
func StatValueFromPtr(p *float64) StatValue {
	if p == nil {
		return Missing()
	}
	return StatValue(*p)
}
