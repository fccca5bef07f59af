package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
	"heartrisk/internal/scoring"
	"heartrisk/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sidecar(t *testing.T, features []string, encoding string) *httptest.Server {
	t.Helper()
	srv, _ := countingSidecar(t, features, encoding)
	return srv
}

// countingSidecar also reports how many /predict calls it served.
func countingSidecar(t *testing.T, features []string, encoding string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var predicts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":     "random_forest",
			"kind":     "random_forest",
			"features": features,
			"encoding": encoding,
			"metrics":  map[string]float64{"recall": 0.89},
		})
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		predicts.Add(1)
		var req predictRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, patient.Columns, req.Columns)
		// chest pain type drives the fake model
		if req.Features[2] >= 4 {
			_, _ = w.Write([]byte(`{"label": 1, "proba": [0.2, 0.8]}`))
			return
		}
		_, _ = w.Write([]byte(`{"label": 0, "proba": [0.9, 0.1]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &predicts
}

func TestClient_ScoresOnSidecar(t *testing.T) {
	srv := sidecar(t, patient.Columns, "statlog")
	ctx := context.Background()

	clf, err := NewLoader(Config{BaseURL: srv.URL + "/", Token: "s3cret"}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, clf.Info().Source)
	assert.Equal(t, "random_forest", clf.Info().Kind)

	x := []float64{50, 1, 4, 130, 237, 0, 0, 150, 0, 0.6, 1, 3}
	label, err := clf.Predict(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	p, err := clf.PredictProba(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0.2, 0.8}, p)

	x[2] = 1
	label, err = clf.Predict(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	_, err = clf.Predict(ctx, x[:5])
	assert.True(t, errors.Is(err, core.ErrSchemaMismatch))
}

func TestLoader_RejectsSchemaAndEncoding(t *testing.T) {
	ctx := context.Background()

	bad := append([]string(nil), patient.Columns...)
	bad[11] = "target"
	_, err := NewLoader(Config{BaseURL: sidecar(t, bad, "").URL, Token: "s3cret"}).Load(ctx)
	assert.True(t, errors.Is(err, core.ErrSchemaMismatch))

	_, err = NewLoader(Config{BaseURL: sidecar(t, patient.Columns, "zero-based").URL, Token: "s3cret"}).Load(ctx)
	assert.True(t, errors.Is(err, core.ErrEncodingMismatch))
}

func TestLoader_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewLoader(Config{BaseURL: srv.URL}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrArtifactUnavailable))
	assert.Contains(t, err.Error(), "500")
}

func TestClient_OneRoundTripPerAssessment(t *testing.T) {
	srv, predicts := countingSidecar(t, patient.Columns, "statlog")
	ctx := context.Background()

	svc := scoring.NewService(NewLoader(Config{BaseURL: srv.URL, Token: "s3cret"}), nil)
	a, err := svc.Score(ctx, patient.Inputs{
		Age: 60, Sex: 1, ChestPainType: 4, RestingBP: 150, Cholesterol: 280,
		MaxHeartRate: 120, ExerciseAngina: 1, Oldpeak: 2, STSlope: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Class)
	assert.Equal(t, 80.0, a.RiskPercent)
	assert.EqualValues(t, 1, predicts.Load())

	clf, err := svc.Classifier(ctx)
	require.NoError(t, err)
	_, ok := clf.(ports.Scorer)
	assert.True(t, ok)
}
