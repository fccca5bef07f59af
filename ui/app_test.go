package ui

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_LeanPredictor(t *testing.T) {
	deps := newDeps(t, sampleArtifact, false)
	require.NoError(t, deps.Scoring.Warm(context.Background()))

	app, err := NewApp(AppConfig{Profile: "zero-based"}, deps)
	require.NoError(t, err)
	h := app.Handler()

	w := do(t, h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/predict"`)
	assert.Contains(t, w.Body.String(), "0: Typical angina")

	// zero-based form: chest pain 3 is asymptomatic, slope 1 is flat
	form := highRiskForm()
	form.Set("chest_pain_type", "3")
	form.Set("st_slope", "1")
	w = do(t, h, http.MethodPost, "/predict", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "81.11 %")

	w = do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	w = do(t, h, http.MethodGet, "/static/style.css", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_UnknownProfile(t *testing.T) {
	_, err := NewApp(AppConfig{Profile: "kiosk"}, newDeps(t, sampleArtifact, false))
	assert.Error(t, err)
}

func TestApp_UnavailableModel(t *testing.T) {
	deps := newDeps(t, "../testdata/missing_model.json", false)
	app, err := NewApp(AppConfig{Profile: "sidebar"}, deps)
	require.NoError(t, err)

	w := do(t, app.Handler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, app.Handler(), http.MethodGet, "/", "", "")
	assert.NotContains(t, w.Body.String(), `<button type="submit"`)
}
