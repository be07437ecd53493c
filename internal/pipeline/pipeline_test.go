package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsage/internal/features"
	"airsage/internal/model"
	"airsage/internal/severity"
)

type stubProvider struct {
	value float64
	err   error
	names []string
	last  features.Record
}

func (s *stubProvider) Predict(rec features.Record) (float64, error) {
	s.last = rec
	if s.err != nil {
		return 0, s.err
	}
	return s.value, nil
}

type listingProvider struct {
	stubProvider
}

func (l *listingProvider) FeatureNames() []string { return l.names }

type mockMetrics struct {
	predictions  int
	failures     int
	unavailable  int
	latencyCalls int
	values       []float64
	levels       []string
}

func (m *mockMetrics) PredictionsInc()                  { m.predictions++ }
func (m *mockMetrics) PredictionFailuresInc()           { m.failures++ }
func (m *mockMetrics) ModelUnavailableInc()             { m.unavailable++ }
func (m *mockMetrics) PredictionLatencyObserve(float64) { m.latencyCalls++ }
func (m *mockMetrics) PredictionValueObserve(v float64) { m.values = append(m.values, v) }
func (m *mockMetrics) SeverityInc(level string)         { m.levels = append(m.levels, level) }

func canonicalInputs() map[string]float64 {
	return map[string]float64{
		"PT08.S1(CO)":  1000,
		"NMHC(GT)":     200,
		"NOx(GT)":      150,
		"NO2(GT)":      50,
		"PT08.S3(NOx)": 800,
		"T":            20,
		"RH":           50,
		"AH":           1.0,
		"Hour":         8,
		"Month":        6,
		"DayOfWeek":    0,
	}
}

func TestRun_SafeScenario(t *testing.T) {
	provider := &stubProvider{value: 3.2}
	m := &mockMetrics{}
	p := New(provider, m)

	result, err := p.Run(canonicalInputs(), 9.4)
	require.NoError(t, err)

	assert.Equal(t, 3.2, result.Prediction)
	assert.Equal(t, severity.Safe, result.Severity)
	assert.Equal(t, "Air Quality Normal", result.Message)
	assert.Equal(t, 3.2, result.Gauge.Value)
	assert.Equal(t, 9.4, result.Gauge.Threshold)
	assert.Equal(t, features.DefaultFeatures, result.Record.Names)

	assert.Equal(t, 1, m.predictions)
	assert.Equal(t, []string{"safe"}, m.levels)
	assert.Equal(t, []float64{3.2}, m.values)
	assert.Equal(t, 1, m.latencyCalls)
}

func TestRun_HazardousScenario(t *testing.T) {
	provider := &stubProvider{value: 12.7}
	p := New(provider, nil) // nil metrics must be tolerated

	result, err := p.Run(canonicalInputs(), 9.4)
	require.NoError(t, err)

	assert.Equal(t, severity.Hazardous, result.Severity)
	assert.Equal(t, "Critical Alert: Evacuation recommended!", result.Message)
}

func TestRun_ModelUnavailable(t *testing.T) {
	provider := model.Unavailable{Reason: errors.New("artifact missing")}
	m := &mockMetrics{}
	p := New(provider, m)

	_, err := p.Run(canonicalInputs(), 9.4)
	require.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.Equal(t, 1, m.unavailable)
	assert.Zero(t, m.predictions)

	// Failing fast means no retry side effects; a second run behaves the same.
	_, err = p.Run(canonicalInputs(), 9.4)
	require.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.Equal(t, 2, m.unavailable)
}

func TestRun_MissingFeature(t *testing.T) {
	provider := &listingProvider{}
	provider.names = []string{"X"}
	m := &mockMetrics{}
	p := New(provider, m)

	_, err := p.Run(map[string]float64{"T": 20}, 9.4)

	var missingErr *features.MissingFeatureError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"X"}, missingErr.Names)
	assert.Equal(t, 1, m.failures)
}

func TestRun_PredictionErrorCarriesRecord(t *testing.T) {
	provider := &stubProvider{err: errors.New("shape mismatch")}
	p := New(provider, &mockMetrics{})

	_, err := p.Run(canonicalInputs(), 9.4)

	var predErr *PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, features.DefaultFeatures, predErr.Record.Names)
	assert.Contains(t, predErr.Error(), "shape mismatch")
	assert.Contains(t, predErr.Error(), "PT08.S1(CO)")
}

func TestNew_FeatureOrderFromProvider(t *testing.T) {
	provider := &listingProvider{}
	provider.names = []string{"RH", "T"}
	p := New(provider, nil)

	assert.Equal(t, []string{"RH", "T"}, p.ExpectedFeatures())

	result, err := p.Run(map[string]float64{"T": 20, "RH": 50}, 9.4)
	require.NoError(t, err)
	assert.Equal(t, []string{"RH", "T"}, result.Record.Names)
	assert.Equal(t, []float64{50, 20}, result.Record.Values)
}

func TestNew_FeatureOrderDefault(t *testing.T) {
	p := New(&stubProvider{value: 1}, nil)
	assert.Equal(t, features.DefaultFeatures, p.ExpectedFeatures())

	// The resolved order is a defensive copy.
	p.ExpectedFeatures()[0] = "mutated"
	assert.Equal(t, features.DefaultFeatures, p.ExpectedFeatures())
}
