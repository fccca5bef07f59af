package ports

import (
	"context"
)

// Classifier is a pre-trained binary classifier over the twelve-column record.
// Implementations are read-only after loading and safe for concurrent use.
type Classifier interface {
	// Predict returns the class label, 0 or 1.
	Predict(ctx context.Context, features []float64) (int, error)

	// PredictProba returns [p(label=0), p(label=1)].
	PredictProba(ctx context.Context, features []float64) ([2]float64, error)

	// Info describes the loaded artifact.
	Info() ModelInfo
}

// Scorer is implemented by classifiers that return the label and the
// probabilities from a single evaluation. Callers prefer it when present.
type Scorer interface {
	Score(ctx context.Context, features []float64) (int, [2]float64, error)
}

// ModelInfo is the metadata an artifact carries about itself.
type ModelInfo struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Features    []string           `json:"features"`
	Encoding    string             `json:"encoding"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Source      string             `json:"source"`
	Fingerprint string             `json:"fingerprint,omitempty"`
}

// ClassifierLoader deserializes a classifier from its source.
type ClassifierLoader interface {
	Load(ctx context.Context) (Classifier, error)
	Source() string
}
