// Package features builds the ordered feature records consumed by the
// regression model. Assembly selects and reorders raw input values to match
// the model's expected input order; it never defaults a missing value.
package features

import (
	"fmt"
	"strings"
)

// DefaultFeatures is the canonical input order the air quality model was
// trained on. It is used whenever the loaded model does not expose its own
// feature list.
var DefaultFeatures = []string{
	"PT08.S1(CO)", "NMHC(GT)", "NOx(GT)", "NO2(GT)",
	"PT08.S3(NOx)", "T", "RH", "AH", "Hour", "Month", "DayOfWeek",
}

// Record is a single-row ordered feature record. Names and Values are
// parallel slices; the order matches the model's expected input order.
type Record struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Value returns the value for a named feature, if present.
func (r Record) Value(name string) (float64, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// MissingFeatureError reports expected features that were absent from the
// raw inputs. This is a wiring defect in the caller, not a user input error.
type MissingFeatureError struct {
	Names []string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing features: %s", strings.Join(e.Names, ", "))
}

// Assemble selects exactly the expected features from raw, in expected order.
// Extra raw keys are dropped. Any expected name absent from raw fails the
// whole assembly; silently defaulting a sensor reading would poison the
// prediction downstream.
func Assemble(raw map[string]float64, expected []string) (Record, error) {
	rec := Record{
		Names:  make([]string, 0, len(expected)),
		Values: make([]float64, 0, len(expected)),
	}

	var missing []string
	for _, name := range expected {
		v, ok := raw[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		rec.Names = append(rec.Names, name)
		rec.Values = append(rec.Values, v)
	}

	if len(missing) > 0 {
		return Record{}, &MissingFeatureError{Names: missing}
	}
	return rec, nil
}
