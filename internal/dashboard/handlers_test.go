package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsage/internal/features"
	"airsage/internal/metrics"
	"airsage/internal/model"
	"airsage/internal/pipeline"
	"airsage/internal/severity"
	"airsage/internal/storage"
)

type stubProvider struct {
	value float64
	err   error
}

func (s stubProvider) Predict(features.Record) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.value, nil
}

func newTestDashboard(t *testing.T, provider model.Provider, store *storage.Store) *Dashboard {
	t.Helper()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	mw := metrics.NewWrapper(m)
	pipe := pipeline.New(provider, mw)
	return New(pipe, provider, store, mw, 9.4, 18080)
}

func canonicalBody(threshold float64) []byte {
	req := AnalyzeRequest{
		Inputs: map[string]float64{
			"PT08.S1(CO)": 1000, "NMHC(GT)": 200, "NOx(GT)": 150, "NO2(GT)": 50,
			"PT08.S3(NOx)": 800, "T": 20, "RH": 50, "AH": 1.0,
			"Hour": 8, "Month": 6, "DayOfWeek": 0,
		},
		Threshold: &threshold,
	}
	data, _ := json.Marshal(req)
	return data
}

func TestHandleAnalyze_Safe(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 3.2}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(canonicalBody(9.4)))
	d.handleAnalyze(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 3.2, result.Prediction)
	assert.Equal(t, severity.Safe, result.Severity)
	assert.Equal(t, "Air Quality Normal", result.Message)
	assert.Equal(t, 3.2, result.Gauge.Value)
	assert.Len(t, result.Gauge.Bands, 3)
}

func TestHandleAnalyze_ThresholdClamped(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 3.2}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(canonicalBody(99)))
	d.handleAnalyze(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 15.0, result.Threshold)
}

func TestHandleAnalyze_ModelUnavailable(t *testing.T) {
	d := newTestDashboard(t, model.Unavailable{Reason: errors.New("no artifact")}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(canonicalBody(9.4)))
	d.handleAnalyze(w, r)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "model_unavailable", resp.Kind)
}

func TestHandleAnalyze_MissingFeature(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 1}, nil)

	body, _ := json.Marshal(AnalyzeRequest{Inputs: map[string]float64{"T": 20}})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	d.handleAnalyze(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing_feature", resp.Kind)
	assert.Contains(t, resp.Missing, "PT08.S1(CO)")
	assert.NotContains(t, resp.Missing, "T")
}

func TestHandleAnalyze_PredictionFailedDiagnostics(t *testing.T) {
	d := newTestDashboard(t, stubProvider{err: errors.New("shape mismatch")}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(canonicalBody(9.4)))
	d.handleAnalyze(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "prediction_failed", resp.Kind)
	require.NotNil(t, resp.Record)
	assert.Equal(t, features.DefaultFeatures, resp.Record.Names)
}

func TestHandleAnalyze_BadRequests(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 1}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte("not json")))
	d.handleAnalyze(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte(`{"inputs":{}}`)))
	d.handleAnalyze(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyze_PersistsHistory(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	d := newTestDashboard(t, stubProvider{value: 12.5}, store)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(canonicalBody(9.4)))
	d.handleAnalyze(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	records, err := store.RecentAnalyses(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 12.5, records[0].Prediction)
	assert.Equal(t, severity.Hazardous, records[0].Severity)
}

func TestHandleModelInfo(t *testing.T) {
	d := newTestDashboard(t, model.Unavailable{Reason: errors.New("boom")}, nil)

	w := httptest.NewRecorder()
	d.handleModelInfo(w, httptest.NewRequest(http.MethodGet, "/api/model/info", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Model            model.Info `json:"model"`
		ExpectedFeatures []string   `json:"expected_features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Model.Available)
	assert.Equal(t, features.DefaultFeatures, resp.ExpectedFeatures)
}

func TestHandleHistory_NoStore(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 1}, nil)

	w := httptest.NewRecorder()
	d.handleHistory(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandleHealth_DegradedModel(t *testing.T) {
	d := newTestDashboard(t, model.Unavailable{}, nil)

	w := httptest.NewRecorder()
	d.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["model_available"])
}

func TestHandleIndex_RendersForm(t *testing.T) {
	d := newTestDashboard(t, stubProvider{value: 1}, nil)

	w := httptest.NewRecorder()
	d.handleIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "AirSage")
	assert.Contains(t, body, "Run Analysis")
	assert.Contains(t, body, "PT08.S1(CO)")
	assert.Contains(t, body, "DayOfWeek")
	assert.Contains(t, body, "Alert Threshold")
}
