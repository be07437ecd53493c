// Package severity maps CO concentration predictions to alert levels.
package severity

import (
	"encoding/json"
	"fmt"

	"airsage/internal/common"
)

// Level is the alert severity of a CO concentration estimate.
type Level int

const (
	Safe Level = iota
	Moderate
	Hazardous
)

func (l Level) String() string {
	switch l {
	case Safe:
		return "safe"
	case Moderate:
		return "moderate"
	case Hazardous:
		return "hazardous"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Message returns the user-facing alert text for the level.
func (l Level) Message() string {
	switch l {
	case Hazardous:
		return "Critical Alert: Evacuation recommended!"
	case Moderate:
		return "Caution: Sensitive groups should reduce exposure"
	default:
		return "Air Quality Normal"
	}
}

// MarshalJSON encodes the level as its string name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its string name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "safe":
		*l = Safe
	case "moderate":
		*l = Moderate
	case "hazardous":
		*l = Hazardous
	default:
		return fmt.Errorf("unknown severity level %q", s)
	}
	return nil
}

// Classify maps a prediction to a severity level given the configured alert
// threshold. The lower band boundary is fixed at common.LowBand. Callers
// keep threshold within [common.MinThreshold, common.MaxThreshold], so the
// low band never sits above it; threshold == common.LowBand collapses the
// Moderate band to empty, which is valid.
func Classify(prediction, threshold float64) Level {
	switch {
	case prediction > threshold:
		return Hazardous
	case prediction > common.LowBand:
		return Moderate
	default:
		return Safe
	}
}
