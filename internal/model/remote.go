package model

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"airsage/internal/features"
)

// Remote predicts against an external inference service instead of a local
// artifact. The service contract mirrors the local provider: POST /predict
// with an ordered record, GET /model/info for metadata.
type Remote struct {
	rest *resty.Client
	info Info
}

type remotePredictRequest struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

type remotePredictResponse struct {
	Prediction float64 `json:"prediction"`
	Error      string  `json:"error,omitempty"`
}

// NewRemote probes the inference service once at startup. An unreachable or
// misbehaving service degrades to Unavailable, same as a missing artifact.
func NewRemote(baseURL string, timeout time.Duration) Provider {
	r := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}

	p := &Remote{rest: r}
	info, err := p.fetchInfo()
	if err != nil {
		log.Warn().Err(err).Str("model_url", baseURL).Msg("inference service unreachable, predictions disabled")
		return Unavailable{Reason: err}
	}
	info.Available = true
	p.info = info

	log.Info().
		Str("model_url", baseURL).
		Str("version", info.Version).
		Msg("remote inference service connected")
	return p
}

func (p *Remote) fetchInfo() (Info, error) {
	var info Info
	resp, err := p.rest.R().SetResult(&info).Get("/model/info")
	if err != nil {
		return Info{}, fmt.Errorf("fetch model info: %w", err)
	}
	if resp.IsError() {
		return Info{}, fmt.Errorf("fetch model info: status %d", resp.StatusCode())
	}
	return info, nil
}

// Predict forwards the record to the inference service.
func (p *Remote) Predict(rec features.Record) (float64, error) {
	req := remotePredictRequest{Names: rec.Names, Values: rec.Values}

	var out remotePredictResponse
	resp, err := p.rest.R().SetBody(req).SetResult(&out).Post("/predict")
	if err != nil {
		return 0, fmt.Errorf("remote predict: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("remote predict: status %d", resp.StatusCode())
	}
	if out.Error != "" {
		return 0, fmt.Errorf("remote predict: %s", out.Error)
	}
	return out.Prediction, nil
}

// FeatureNames returns the service-reported feature order, if any.
func (p *Remote) FeatureNames() []string {
	if len(p.info.Features) == 0 {
		return nil
	}
	return append([]string(nil), p.info.Features...)
}

// Info describes the connected service.
func (p *Remote) Info() Info {
	return p.info
}
