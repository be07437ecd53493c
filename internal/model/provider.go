// Package model loads the pre-trained air quality regression and exposes it
// behind a small Provider interface. A failed load degrades to a provider
// that fails fast on every prediction; the process keeps running and the
// load is not retried.
package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"airsage/internal/features"
)

// ErrModelUnavailable is returned by every Predict call after the model
// artifact failed to load.
var ErrModelUnavailable = errors.New("model unavailable")

// Provider produces a CO concentration estimate from an ordered feature
// record. The estimate is unbounded; callers must tolerate negative or
// out-of-band values.
type Provider interface {
	Predict(rec features.Record) (float64, error)
}

// FeatureLister is an optional capability: providers that know the exact
// input order they were trained on expose it here. Providers without it get
// the documented default feature list.
type FeatureLister interface {
	FeatureNames() []string
}

// Info describes the loaded model for the dashboard.
type Info struct {
	Available bool      `json:"available"`
	Version   string    `json:"version,omitempty"`
	TrainedAt time.Time `json:"trained_at,omitzero"`
	Features  []string  `json:"features,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Unavailable is the degraded provider used when the artifact failed to
// load. It remembers the load failure for diagnostics.
type Unavailable struct {
	Reason error
}

func (u Unavailable) Predict(features.Record) (float64, error) {
	if u.Reason != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, u.Reason)
	}
	return 0, ErrModelUnavailable
}

// Info reports the degraded state and the original load failure.
func (u Unavailable) Info() Info {
	info := Info{Available: false}
	if u.Reason != nil {
		info.Error = u.Reason.Error()
	}
	return info
}

// LinearModel is a linear regression loaded from a JSON artifact.
type LinearModel struct {
	artifact Artifact
}

// Load reads the artifact at path and returns a ready predictor. Unlike New
// it propagates load failures, for callers that want them.
func Load(path string) (*LinearModel, error) {
	art, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return &LinearModel{artifact: art}, nil
}

// New loads the artifact at path. A missing or malformed artifact yields the
// degraded Unavailable provider rather than an error: the dashboard keeps
// serving with the prediction path disabled.
func New(path string) Provider {
	m, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("model_path", path).Msg("model load failed, predictions disabled")
		return Unavailable{Reason: err}
	}

	log.Info().
		Str("model_path", path).
		Str("version", m.artifact.Version).
		Int("coefficients", len(m.artifact.Coefficients)).
		Msg("regression model loaded")
	return m
}

// Predict evaluates the regression on the record. The record must carry a
// finite value for every feature the model has a coefficient for; a record
// with unknown names means the assembler and model disagree on the feature
// list, which is reported as an error rather than silently skipped.
func (m *LinearModel) Predict(rec features.Record) (float64, error) {
	if len(rec.Names) != len(rec.Values) {
		return 0, fmt.Errorf("malformed record: %d names, %d values", len(rec.Names), len(rec.Values))
	}
	if len(rec.Names) == 0 {
		return 0, errors.New("empty feature record")
	}

	sum := m.artifact.Intercept
	for i, name := range rec.Names {
		coef, ok := m.artifact.Coefficients[name]
		if !ok {
			return 0, fmt.Errorf("no coefficient for feature %q", name)
		}
		v := rec.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %q is not finite", name)
		}
		sum += coef * v
	}
	return sum, nil
}

// FeatureNames returns the artifact's feature order, or nil when the
// artifact does not carry one.
func (m *LinearModel) FeatureNames() []string {
	if len(m.artifact.Features) == 0 {
		return nil
	}
	return append([]string(nil), m.artifact.Features...)
}

// Info describes the loaded artifact.
func (m *LinearModel) Info() Info {
	return Info{
		Available: true,
		Version:   m.artifact.Version,
		TrainedAt: m.artifact.TrainedAt,
		Features:  m.FeatureNames(),
	}
}

// Describer is implemented by providers that can report their state to the
// dashboard.
type Describer interface {
	Info() Info
}

// Describe returns provider info, tolerating providers without it.
func Describe(p Provider) Info {
	if d, ok := p.(Describer); ok {
		return d.Info()
	}
	return Info{Available: true}
}
