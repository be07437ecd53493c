package gauge

import "testing"

func TestRender_BandLayout(t *testing.T) {
	spec := Render(12.0, 9.4)

	if spec.Min != 0 || spec.Max != 15 {
		t.Errorf("expected axis [0, 15], got [%v, %v]", spec.Min, spec.Max)
	}
	if spec.Value != 12.0 {
		t.Errorf("expected value 12.0, got %v", spec.Value)
	}

	if len(spec.Bands) != 3 {
		t.Fatalf("expected 3 bands, got %d", len(spec.Bands))
	}
	expected := []Band{
		{From: 0, To: 4.4, Color: ColorSafe},
		{From: 4.4, To: 9.4, Color: ColorCaution},
		{From: 9.4, To: 15, Color: ColorDanger},
	}
	for i, want := range expected {
		if spec.Bands[i] != want {
			t.Errorf("band %d = %+v, want %+v", i, spec.Bands[i], want)
		}
	}

	if spec.Marker.Value != 9.4 {
		t.Errorf("expected marker at 9.4, got %v", spec.Marker.Value)
	}
	if spec.Marker.Color != ColorMarker || spec.Marker.Width != 4 {
		t.Errorf("unexpected marker style: %+v", spec.Marker)
	}
}

func TestRender_BandsFollowThreshold(t *testing.T) {
	spec := Render(3.0, 6.0)

	if spec.Bands[1].To != 6.0 || spec.Bands[2].From != 6.0 {
		t.Errorf("caution/danger boundary did not track threshold: %+v", spec.Bands)
	}
	if spec.Threshold != 6.0 {
		t.Errorf("expected threshold 6.0, got %v", spec.Threshold)
	}
}

func TestRender_OutOfRangeValuePreserved(t *testing.T) {
	testCases := []struct {
		name   string
		value  float64
		needle float64
	}{
		{"below min", -3.5, 0},
		{"above max", 42.0, 15},
		{"in range", 7.2, 7.2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := Render(tc.value, 9.4)
			if spec.Value != tc.value {
				t.Errorf("raw value must never be cropped: got %v, want %v", spec.Value, tc.value)
			}
			if got := spec.NeedlePosition(); got != tc.needle {
				t.Errorf("NeedlePosition() = %v, want %v", got, tc.needle)
			}
		})
	}
}
