package metrics

// Wrapper provides the narrow, nil-safe method surface the pipeline reports
// to, avoiding a direct dependency on Prometheus types there.
type Wrapper struct {
	m *Metrics
}

// NewWrapper wraps the metrics; a nil Metrics yields a no-op wrapper.
func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	if w != nil && w.m != nil {
		w.m.Predictions.Inc()
	}
}

func (w *Wrapper) PredictionFailuresInc() {
	if w != nil && w.m != nil {
		w.m.PredictionFailures.Inc()
	}
}

func (w *Wrapper) ModelUnavailableInc() {
	if w != nil && w.m != nil {
		w.m.ModelUnavailable.Inc()
	}
}

func (w *Wrapper) PredictionLatencyObserve(seconds float64) {
	if w != nil && w.m != nil {
		w.m.PredictionLatency.Observe(seconds)
	}
}

func (w *Wrapper) PredictionValueObserve(value float64) {
	if w != nil && w.m != nil {
		w.m.PredictionValues.Observe(value)
	}
}

func (w *Wrapper) SeverityInc(level string) {
	if w != nil && w.m != nil {
		w.m.Severity.WithLabelValues(level).Inc()
	}
}

func (w *Wrapper) AnalysesStoredInc() {
	if w != nil && w.m != nil {
		w.m.AnalysesStored.Inc()
	}
}

func (w *Wrapper) ModelAgeSet(seconds float64) {
	if w != nil && w.m != nil {
		w.m.ModelAge.Set(seconds)
	}
}
