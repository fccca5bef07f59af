// Package remote talks to a model sidecar that holds the trained estimator
// and exposes its predict / predict_proba over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
	"heartrisk/ports"

	"github.com/tidwall/gjson"
)

// Config holds the sidecar location and credentials.
type Config struct {
	BaseURL string
	Token   string // sent as a bearer token when set
	Timeout time.Duration
}

// Loader fetches the sidecar schema once and returns a Client bound to it.
type Loader struct {
	config     Config
	httpClient *http.Client
}

// NewLoader creates a loader for the sidecar at cfg.BaseURL.
func NewLoader(cfg Config) *Loader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Loader{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (l *Loader) Source() string { return l.config.BaseURL }

// Load reads GET {base}/schema and checks it against the canonical record.
func (l *Loader) Load(ctx context.Context) (ports.Classifier, error) {
	body, err := l.do(ctx, http.MethodGet, "/schema", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrArtifactUnavailable, err)
	}

	var info ports.ModelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: decode schema: %v", core.ErrArtifactUnavailable, err)
	}
	if !slices.Equal(info.Features, patient.Columns) {
		return nil, fmt.Errorf("%w: sidecar features %q, want %q", core.ErrSchemaMismatch, info.Features, patient.Columns)
	}
	if info.Encoding == "" {
		info.Encoding = patient.Encoding
	}
	if info.Encoding != patient.Encoding {
		return nil, fmt.Errorf("%w: sidecar uses %q, record uses %q", core.ErrEncodingMismatch, info.Encoding, patient.Encoding)
	}
	info.Source = l.config.BaseURL
	if info.Kind == "" {
		info.Kind = "remote"
	}
	info.Fingerprint = core.NewArtifactHash(body).String()

	return &Client{loader: l, info: info}, nil
}

// Client scores records on the sidecar.
type Client struct {
	loader *Loader
	info   ports.ModelInfo
}

func (c *Client) Info() ports.ModelInfo { return c.info }

func (c *Client) Predict(ctx context.Context, features []float64) (int, error) {
	label, _, err := c.Score(ctx, features)
	return label, err
}

func (c *Client) PredictProba(ctx context.Context, features []float64) ([2]float64, error) {
	_, proba, err := c.Score(ctx, features)
	return proba, err
}

type predictRequest struct {
	Columns  []string  `json:"columns"`
	Features []float64 `json:"features"`
}

// Score posts one row to {base}/predict and parses {"label":..,"proba":[..]},
// so the label and the probabilities come from the same response.
func (c *Client) Score(ctx context.Context, features []float64) (int, [2]float64, error) {
	var proba [2]float64
	if len(features) != len(patient.Columns) {
		return 0, proba, fmt.Errorf("%w: got %d features, want %d", core.ErrSchemaMismatch, len(features), len(patient.Columns))
	}

	payload, err := json.Marshal(predictRequest{Columns: patient.Columns, Features: features})
	if err != nil {
		return 0, proba, err
	}
	body, err := c.loader.do(ctx, http.MethodPost, "/predict", payload)
	if err != nil {
		return 0, proba, err
	}

	label := gjson.GetBytes(body, "label")
	if !label.Exists() {
		return 0, proba, fmt.Errorf("sidecar response has no label")
	}
	probs := gjson.GetBytes(body, "proba").Array()
	if len(probs) != 2 {
		return 0, proba, fmt.Errorf("sidecar returned %d probabilities, want 2", len(probs))
	}
	proba[0], proba[1] = probs[0].Float(), probs[1].Float()
	return int(label.Int()), proba, nil
}

func (l *Loader) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, l.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if l.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+l.config.Token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sidecar returned %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}
	return body, nil
}
