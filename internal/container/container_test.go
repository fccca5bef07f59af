package container

import (
	"context"
	"testing"
	"time"

	"heartrisk/internal/config"
	"heartrisk/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "8080", GinMode: "test", ShutdownTimeout: time.Second},
		Model:   config.ModelConfig{Path: "../../testdata/random_forest_model.json", Timeout: time.Second},
		Dataset: config.DatasetConfig{Path: "../../testdata/heart_sample.csv", Table: "heart"},
		UI:      config.UIConfig{DefaultProfile: "sidebar", EDAEnabled: true},
		Log:     config.LogConfig{Level: "ERROR"},
	}
}

func TestNew_WarmLoadsModelAndDataset(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig())
	require.NoError(t, err)
	defer c.Shutdown(ctx)

	require.NotNil(t, c.Dashboard)
	assert.Equal(t, scoring.StatePending, c.Scoring.Status().State)

	c.Warm(ctx)
	assert.Equal(t, scoring.StateReady, c.Scoring.Status().State)
	assert.True(t, c.Dashboard.Status().Loaded)

	deps := c.Deps()
	assert.Same(t, c.Scoring, deps.Scoring)
	assert.Same(t, c.Dashboard, deps.Dashboard)
	assert.Len(t, deps.Profiles.List(), 5)
}

func TestNew_FailuresDoNotAbortWarm(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Path = "../../testdata/missing_model.json"
	cfg.Dataset.Path = "../../testdata/missing.csv"

	ctx := context.Background()
	c, err := New(ctx, cfg)
	require.NoError(t, err)

	c.Warm(ctx)
	assert.Equal(t, scoring.StateUnavailable, c.Scoring.Status().State)
	assert.False(t, c.Dashboard.Status().Loaded)
	assert.NotEmpty(t, c.Dashboard.Status().Error)
}

func TestNew_DashboardDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.UI.EDAEnabled = false

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, c.Dashboard)
	assert.Nil(t, c.Deps().Dashboard)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}
