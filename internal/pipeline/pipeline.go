// Package pipeline runs one analysis per request: assemble the feature
// record, predict, classify the severity, and render the gauge spec. All
// failures surface as typed errors for the dashboard to display; none are
// fatal to the process.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"airsage/internal/features"
	"airsage/internal/gauge"
	"airsage/internal/model"
	"airsage/internal/severity"
)

// PredictionError wraps a provider failure with the attempted record so the
// dashboard can show what was fed to the model.
type PredictionError struct {
	Record features.Record
	Err    error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed for features [%s]: %v", strings.Join(e.Record.Names, ", "), e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// MetricsInterface defines the metrics hooks the pipeline reports to.
type MetricsInterface interface {
	PredictionsInc()
	PredictionFailuresInc()
	ModelUnavailableInc()
	PredictionLatencyObserve(float64)
	PredictionValueObserve(float64)
	SeverityInc(level string)
}

// Result is one completed analysis.
type Result struct {
	Prediction float64         `json:"prediction"`
	Severity   severity.Level  `json:"severity"`
	Message    string          `json:"message"`
	Gauge      gauge.Spec      `json:"gauge"`
	Record     features.Record `json:"record"`
	Threshold  float64         `json:"threshold"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Pipeline holds the provider and the expected feature order. The order is
// resolved once at construction and passed through explicitly; nothing else
// is stateful across runs.
type Pipeline struct {
	provider model.Provider
	expected []string
	metrics  MetricsInterface
}

// New resolves the expected feature order: from the provider when it exposes
// one, otherwise the documented default list.
func New(provider model.Provider, metrics MetricsInterface) *Pipeline {
	expected := features.DefaultFeatures
	if lister, ok := provider.(model.FeatureLister); ok {
		if names := lister.FeatureNames(); len(names) > 0 {
			expected = names
		}
	}

	return &Pipeline{
		provider: provider,
		expected: append([]string(nil), expected...),
		metrics:  metrics,
	}
}

// ExpectedFeatures returns a copy of the resolved feature order.
func (p *Pipeline) ExpectedFeatures() []string {
	return append([]string(nil), p.expected...)
}

// Run performs one assemble -> predict -> classify -> render sequence.
// Callers keep threshold within the configured [4.4, 15.0] range.
func (p *Pipeline) Run(raw map[string]float64, threshold float64) (Result, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.PredictionLatencyObserve(time.Since(start).Seconds())
		}
	}()

	rec, err := features.Assemble(raw, p.expected)
	if err != nil {
		if p.metrics != nil {
			p.metrics.PredictionFailuresInc()
		}
		return Result{}, err
	}

	prediction, err := p.provider.Predict(rec)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			if p.metrics != nil {
				p.metrics.ModelUnavailableInc()
			}
			return Result{}, err
		}
		if p.metrics != nil {
			p.metrics.PredictionFailuresInc()
		}
		return Result{}, &PredictionError{Record: rec, Err: err}
	}

	level := severity.Classify(prediction, threshold)

	if p.metrics != nil {
		p.metrics.PredictionsInc()
		p.metrics.PredictionValueObserve(prediction)
		p.metrics.SeverityInc(level.String())
	}

	return Result{
		Prediction: prediction,
		Severity:   level,
		Message:    level.Message(),
		Gauge:      gauge.Render(prediction, threshold),
		Record:     rec,
		Threshold:  threshold,
		Timestamp:  time.Now().UTC(),
	}, nil
}
