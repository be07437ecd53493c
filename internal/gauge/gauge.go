// Package gauge produces declarative gauge specs for CO concentration
// display. A Spec describes bands, threshold marker and needle value; actual
// drawing is left to the dashboard front end.
package gauge

import "airsage/internal/common"

// Band and needle colors used by the dashboard gauge.
const (
	ColorSafe    = "lightgreen"
	ColorCaution = "orange"
	ColorDanger  = "red"
	ColorNeedle  = "darkblue"
	ColorMarker  = "black"
)

// Band is one contiguous colored range of the gauge arc.
type Band struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

// Marker is the threshold line drawn across the gauge arc.
type Marker struct {
	Value     float64 `json:"value"`
	Color     string  `json:"color"`
	Width     int     `json:"width"`
	Thickness float64 `json:"thickness"`
}

// Spec is a declarative description of the severity gauge. Value carries the
// raw prediction unmodified even when it falls outside [Min, Max]; clamping
// for display is the renderer's concern via NeedlePosition.
type Spec struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Value       float64 `json:"value"`
	Threshold   float64 `json:"threshold"`
	NeedleColor string  `json:"needleColor"`
	Bands       []Band  `json:"bands"`
	Marker      Marker  `json:"marker"`
}

// Render builds the gauge spec for a prediction against the alert threshold.
// Bands: [Min, LowBand) safe, [LowBand, threshold) caution,
// [threshold, Max] danger.
func Render(value, threshold float64) Spec {
	return Spec{
		Min:         common.GaugeMin,
		Max:         common.GaugeMax,
		Value:       value,
		Threshold:   threshold,
		NeedleColor: ColorNeedle,
		Bands: []Band{
			{From: common.GaugeMin, To: common.LowBand, Color: ColorSafe},
			{From: common.LowBand, To: threshold, Color: ColorCaution},
			{From: threshold, To: common.GaugeMax, Color: ColorDanger},
		},
		Marker: Marker{
			Value:     threshold,
			Color:     ColorMarker,
			Width:     4,
			Thickness: 0.75,
		},
	}
}

// NeedlePosition returns Value clamped to the gauge axis for drawing. The
// numeric label still shows the raw Value.
func (s Spec) NeedlePosition() float64 {
	switch {
	case s.Value < s.Min:
		return s.Min
	case s.Value > s.Max:
		return s.Max
	default:
		return s.Value
	}
}
