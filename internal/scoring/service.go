// Package scoring owns the loaded classifier and turns patient inputs into
// risk assessments.
package scoring

import (
	"context"
	"errors"
	"fmt"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
	"heartrisk/domain/risk"
	"heartrisk/internal"
	"heartrisk/internal/cache"
	"heartrisk/ports"
)

// State is the availability of the classifier.
type State string

const (
	StatePending     State = "pending"
	StateReady       State = "ready"
	StateUnavailable State = "unavailable"
)

// Status is what the health endpoint and the form page show about the model.
type Status struct {
	State  State            `json:"state"`
	Source string           `json:"source"`
	Error  string           `json:"error,omitempty"`
	Model  *ports.ModelInfo `json:"model,omitempty"`
	Cache  cache.Status     `json:"cache"`
}

// Service scores patient inputs with a classifier loaded once per process.
type Service struct {
	loader ports.ClassifierLoader
	model  *cache.Once[ports.Classifier]
	logger *internal.Logger
}

// NewService wires a loader; nothing is loaded until Warm or the first Score.
func NewService(loader ports.ClassifierLoader, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Service{loader: loader, logger: logger.With("scoring")}
	s.model = cache.New("model", s.load)
	return s
}

func (s *Service) load(ctx context.Context) (ports.Classifier, error) {
	s.logger.Info("loading model from %s", s.loader.Source())
	clf, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("model unavailable: %v", err)
		return nil, err
	}
	info := clf.Info()
	s.logger.Info("model %s (%s, encoding %s) ready", info.Name, info.Kind, info.Encoding)
	return clf, nil
}

// Warm triggers the one-time load and reports its outcome.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Classifier(ctx)
	return err
}

// Classifier returns the loaded model. Any load failure is reported as
// core.ErrArtifactUnavailable, with the underlying cause still reachable.
func (s *Service) Classifier(ctx context.Context) (ports.Classifier, error) {
	clf, err := s.model.Get(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return clf, nil
}

// Status reports the model state without triggering a load.
func (s *Service) Status() Status {
	st := Status{Source: s.loader.Source(), Cache: s.model.Status()}
	clf, err, done := s.model.Peek()
	switch {
	case !done:
		st.State = StatePending
	case err != nil:
		st.State = StateUnavailable
		st.Error = err.Error()
	default:
		st.State = StateReady
		info := clf.Info()
		st.Model = &info
	}
	return st
}

// Score assesses one patient. Availability is checked before the record is
// assembled, so an unavailable model never validates or scores anything.
func (s *Service) Score(ctx context.Context, in patient.Inputs) (*risk.Assessment, error) {
	clf, err := s.Classifier(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := patient.NewRecord(in)
	if err != nil {
		return nil, err
	}
	features := rec.Vector()

	class, proba, err := classify(ctx, clf, features)
	if err != nil {
		return nil, err
	}

	a, err := risk.New(rec, class, proba)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("assessment %s: label=%s p1=%.4f", a.ID, a.Label, proba[1])
	return a, nil
}

// classify makes one call when the classifier is a ports.Scorer, and falls
// back to Predict then PredictProba otherwise.
func classify(ctx context.Context, clf ports.Classifier, features []float64) (int, [2]float64, error) {
	if sc, ok := clf.(ports.Scorer); ok {
		class, proba, err := sc.Score(ctx, features)
		if err != nil {
			return 0, proba, fmt.Errorf("score: %w", err)
		}
		return class, proba, nil
	}

	var proba [2]float64
	class, err := clf.Predict(ctx, features)
	if err != nil {
		return 0, proba, fmt.Errorf("predict: %w", err)
	}
	proba, err = clf.PredictProba(ctx, features)
	if err != nil {
		return 0, proba, fmt.Errorf("predict proba: %w", err)
	}
	return class, proba, nil
}

func unavailable(err error) error {
	if errors.Is(err, core.ErrArtifactUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrArtifactUnavailable, err)
}
