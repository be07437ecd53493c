package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Artifact is the serialized linear regression produced by the training
// pipeline. Features is optional: when present it fixes the expected input
// order, otherwise callers fall back to the documented default list.
type Artifact struct {
	Version      string             `json:"version"`
	TrainedAt    time.Time          `json:"trained_at"`
	Features     []string           `json:"features,omitempty"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
}

// LoadArtifact reads and validates a model artifact from disk.
func LoadArtifact(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return Artifact{}, fmt.Errorf("parse model artifact %s: %w", path, err)
	}

	if len(art.Coefficients) == 0 {
		return Artifact{}, fmt.Errorf("model artifact %s has no coefficients", path)
	}
	for _, name := range art.Features {
		if _, ok := art.Coefficients[name]; !ok {
			return Artifact{}, fmt.Errorf("model artifact %s lists feature %q without a coefficient", path, name)
		}
	}

	return art, nil
}
