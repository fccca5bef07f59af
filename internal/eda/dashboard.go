package eda

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"heartrisk/domain/core"
	"heartrisk/domain/dataset"
	"heartrisk/internal"
	"heartrisk/internal/cache"
	apperrors "heartrisk/internal/errors"
	"heartrisk/ports"
)

// Snapshot is the cleaned dataset and everything derived from it.
type Snapshot struct {
	Source  string                    `json:"source"`
	Hash    core.DatasetHash          `json:"hash"`
	Rows    int                       `json:"rows"`
	Report  dataset.CleaningReport    `json:"cleaning"`
	Summary []dataset.ColumnSummary   `json:"summary"`
	Table   *dataset.Table            `json:"-"`
	Charts  map[core.ChartKind]*Chart `json:"-"`
}

// Dashboard loads, cleans and charts the dataset once per process.
type Dashboard struct {
	source ports.DatasetSource
	data   *cache.Once[*Snapshot]
	logger *internal.Logger
}

// NewDashboard wires a dataset source; nothing is read until Warm or first use.
func NewDashboard(source ports.DatasetSource, logger *internal.Logger) *Dashboard {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	d := &Dashboard{source: source, logger: logger.With("eda")}
	d.data = cache.New("dataset", d.load)
	return d
}

func (d *Dashboard) load(ctx context.Context) (*Snapshot, error) {
	d.logger.Info("loading dataset from %s", d.source.Describe())
	raw, err := d.source.Read(ctx)
	if err != nil {
		d.logger.Error("dataset read failed: %v", err)
		return nil, err
	}
	snap, err := NewSnapshot(d.source.Describe(), raw)
	if err != nil {
		d.logger.Error("dataset unusable: %v", err)
		return nil, err
	}
	r := snap.Report
	d.logger.Info("dataset %s cleaned: %d -> %d rows (%d duplicates, %d zero bp, %d cholesterol imputed at %.1f)",
		snap.Hash.Short(), r.RowsIn, r.RowsOut, r.DuplicatesDropped, r.ZeroRestingBPDrop, r.CholesterolImputed, r.CholesterolMedian)
	return snap, nil
}

// NewSnapshot cleans raw and precomputes the summary and all charts.
func NewSnapshot(source string, raw *dataset.Table) (*Snapshot, error) {
	cleaned, report, err := dataset.Clean(raw)
	if err != nil {
		return nil, err
	}
	summary, err := dataset.Describe(cleaned)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Source:  source,
		Hash:    cleaned.Hash(),
		Rows:    len(cleaned.Rows),
		Report:  report,
		Summary: summary,
		Table:   cleaned,
		Charts:  make(map[core.ChartKind]*Chart, len(Kinds)),
	}
	for _, kind := range Kinds {
		c, err := Build(kind, cleaned)
		if err != nil {
			return nil, err
		}
		snap.Charts[kind] = c
	}
	return snap, nil
}

// Warm triggers the one-time load and reports its outcome.
func (d *Dashboard) Warm(ctx context.Context) error {
	_, err := d.Snapshot(ctx)
	return err
}

// Snapshot returns the cleaned dataset, or a DATASET_UNAVAILABLE error.
func (d *Dashboard) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := d.data.Get(ctx)
	if err != nil {
		return nil, apperrors.DatasetUnavailable(d.source.Describe(), err)
	}
	return snap, nil
}

// Chart returns the data of one chart by kind name.
func (d *Dashboard) Chart(ctx context.Context, name string) (*Chart, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	snap, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Charts[kind], nil
}

// WriteSVG renders one chart to w. The SVG is rendered into a buffer first so
// a rendering failure never leaves a half-written response.
func (d *Dashboard) WriteSVG(ctx context.Context, name string, w io.Writer) error {
	c, err := d.Chart(ctx, name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := RenderSVG(c, &buf); err != nil {
		return fmt.Errorf("render %s: %w", c.Kind, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Status reports the dataset cache without triggering a load.
func (d *Dashboard) Status() cache.Status {
	return d.data.Status()
}

// Source names the configured dataset source.
func (d *Dashboard) Source() string {
	return d.source.Describe()
}
