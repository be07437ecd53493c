package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"airsage/internal/common"
	"airsage/internal/features"
	"airsage/internal/model"
	"airsage/internal/pipeline"
	"airsage/internal/storage"
)

// AnalyzeRequest is one run of the prediction pipeline. Threshold falls back
// to the configured default when omitted and is clamped into the valid range.
type AnalyzeRequest struct {
	Inputs    map[string]float64 `json:"inputs"`
	Threshold *float64           `json:"threshold,omitempty"`
}

// ErrorResponse is a displayable pipeline failure. Kind is one of
// model_unavailable, missing_feature or prediction_failed.
type ErrorResponse struct {
	Kind    string           `json:"error"`
	Message string           `json:"message"`
	Missing []string         `json:"missing,omitempty"`
	Record  *features.Record `json:"record,omitempty"`
}

func (d *Dashboard) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Inputs) == 0 {
		http.Error(w, "inputs cannot be empty", http.StatusBadRequest)
		return
	}

	threshold := d.defaultThreshold
	if req.Threshold != nil {
		threshold = clampThreshold(*req.Threshold)
	}

	result, err := d.pipe.Run(req.Inputs, threshold)
	if err != nil {
		d.writeAnalyzeError(w, err)
		return
	}

	d.mu.Lock()
	d.lastResult = &result
	d.mu.Unlock()

	if d.store != nil {
		rec := storage.AnalysisRecord{
			Timestamp:  result.Timestamp,
			Inputs:     req.Inputs,
			Prediction: result.Prediction,
			Threshold:  threshold,
			Severity:   result.Severity,
		}
		if err := d.store.StoreAnalysis(rec); err != nil {
			log.Warn().Err(err).Msg("failed to persist analysis record")
		} else {
			d.mw.AnalysesStoredInc()
		}
	}

	d.broadcastResult(result)

	writeJSON(w, http.StatusOK, result)
}

// writeAnalyzeError maps pipeline errors to displayable payloads. A missing
// feature is a wiring defect, not end-user input, so it reports as a server
// error with the missing names spelled out.
func (d *Dashboard) writeAnalyzeError(w http.ResponseWriter, err error) {
	var missingErr *features.MissingFeatureError
	var predErr *pipeline.PredictionError

	switch {
	case errors.Is(err, model.ErrModelUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Kind:    "model_unavailable",
			Message: "Model not loaded - cannot make predictions",
		})
	case errors.As(err, &missingErr):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Kind:    "missing_feature",
			Message: err.Error(),
			Missing: missingErr.Names,
		})
	case errors.As(err, &predErr):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Kind:    "prediction_failed",
			Message: fmt.Sprintf("Prediction failed: %v", predErr.Err),
			Record:  &predErr.Record,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Kind:    "prediction_failed",
			Message: err.Error(),
		})
	}
}

func (d *Dashboard) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	info := model.Describe(d.provider)
	writeJSON(w, http.StatusOK, map[string]any{
		"model":             info,
		"expected_features": d.pipe.ExpectedFeatures(),
	})
}

func (d *Dashboard) handleHistory(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeJSON(w, http.StatusOK, []storage.AnalysisRecord{})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	records, err := d.store.RecentAnalyses(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("history query failed: %v", err), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.AnalysisRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := model.Describe(d.provider)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"model_available": info.Available,
		"time":            time.Now().UTC(),
	})
}

func clampThreshold(t float64) float64 {
	switch {
	case t < common.MinThreshold:
		return common.MinThreshold
	case t > common.MaxThreshold:
		return common.MaxThreshold
	default:
		return t
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
