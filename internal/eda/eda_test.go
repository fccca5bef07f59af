package eda

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"heartrisk/adapters/excel"
	"heartrisk/domain/core"
	"heartrisk/domain/dataset"
	apperrors "heartrisk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := excel.NewDataReader(excel.ExcelConfig{FilePath: "../../testdata/heart_sample.csv"}).Read(context.Background())
	require.NoError(t, err)
	return tbl
}

type stubSource struct {
	table *dataset.Table
	err   error
	reads atomic.Int32
}

func (s *stubSource) Read(ctx context.Context) (*dataset.Table, error) {
	s.reads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.table.Clone(), nil
}

func (s *stubSource) Describe() string { return "stub" }

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(strings.ToUpper(k.String()))
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEmpty(t, Title(k))
	}
	assert.Len(t, Kinds, 7)

	_, err := ParseKind("pie")
	assert.ErrorIs(t, err, core.ErrUnknownChart)
	assert.True(t, core.IsNotFoundError(err))
}

func TestNewSnapshot_SampleDataset(t *testing.T) {
	snap, err := NewSnapshot("sample", sampleTable(t))
	require.NoError(t, err)

	assert.Equal(t, 23, snap.Rows)
	assert.Equal(t, 1, snap.Report.DuplicatesDropped)
	assert.Equal(t, 1, snap.Report.ZeroRestingBPDrop)
	assert.Equal(t, 3, snap.Report.CholesterolImputed)
	assert.Len(t, snap.Summary, 12)
	assert.Len(t, snap.Charts, 7)

	counts := snap.Charts[KindTargetCount].Counts
	require.Len(t, counts, 2)
	assert.Equal(t, [2]int{13, 0}, counts[0].ByClass)
	assert.Equal(t, [2]int{0, 10}, counts[1].ByClass)

	sex := snap.Charts[KindSexVsTarget].Counts
	assert.Equal(t, [2]int{6, 2}, sex[0].ByClass)
	assert.Equal(t, [2]int{7, 8}, sex[1].ByClass)

	bins := snap.Charts[KindAgeDistribution].Bins
	require.Len(t, bins, 6)
	assert.Equal(t, 35.0, bins[0].Lo)
	assert.Equal(t, 65.0, bins[5].Hi)
	total := 0
	for _, b := range bins {
		total += b.ByClass[0] + b.ByClass[1]
	}
	assert.Equal(t, 23, total)

	assert.Len(t, snap.Charts[KindFeatureBoxplots].Boxes, 10)
	assert.Len(t, snap.Charts[KindOutlierBoxplots].Boxes, 3)

	hm := snap.Charts[KindCorrelationHeatmap].Heatmap
	require.NotNil(t, hm)
	require.Len(t, hm.Matrix, 12)
	for i := range hm.Matrix {
		// fasting blood sugar is constant in the sample, so its row is all zero
		want := 1.0
		if hm.Columns[i] == "fasting blood sugar" {
			want = 0
		}
		assert.InDelta(t, want, hm.Matrix[i][i], 1e-9, hm.Columns[i])
		for j := range hm.Matrix {
			assert.Equal(t, hm.Matrix[i][j], hm.Matrix[j][i])
		}
	}

	points := snap.Charts[KindRatioScatter].Points
	require.Len(t, points, 23)
	assert.Equal(t, Point{X: 40, Y: 172.0 / 40, Target: 0}, points[0])
}

func TestNewBox_TukeyWhiskers(t *testing.T) {
	b, err := newBox("oldpeak", "all", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	require.NoError(t, err)

	assert.Equal(t, 2.5, b.Q1)
	assert.Equal(t, 5.0, b.Median)
	assert.Equal(t, 7.5, b.Q3)
	assert.Equal(t, 1.0, b.LowerW)
	assert.Equal(t, 8.0, b.UpperW)
	assert.Equal(t, []float64{100}, b.Outliers)
}

func TestCorrelation_ConstantColumnIsZero(t *testing.T) {
	tbl := &dataset.Table{
		Header: []string{"a", "b"},
		Rows:   [][]float64{{1, 5}, {2, 5}, {3, 5}},
	}
	hm, err := correlation(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hm.Matrix[0][1])
	assert.Equal(t, 0.0, hm.Matrix[1][1])
}

func TestRenderSVG_AllKinds(t *testing.T) {
	snap, err := NewSnapshot("sample", sampleTable(t))
	require.NoError(t, err)

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderSVG(snap.Charts[kind], &buf))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestDashboard_LoadsOnce(t *testing.T) {
	src := &stubSource{table: sampleTable(t)}
	d := NewDashboard(src, nil)

	assert.False(t, d.Status().Loaded)
	require.NoError(t, d.Warm(context.Background()))

	c, err := d.Chart(context.Background(), "target_count")
	require.NoError(t, err)
	assert.Equal(t, KindTargetCount, c.Kind)

	var buf bytes.Buffer
	require.NoError(t, d.WriteSVG(context.Background(), "ratio_scatter", &buf))
	assert.Contains(t, buf.String(), "<svg")

	assert.Equal(t, int32(1), src.reads.Load())
	assert.True(t, d.Status().Loaded)
	assert.Equal(t, "stub", d.Source())
}

func TestDashboard_Unavailable(t *testing.T) {
	src := &stubSource{err: errors.New("file gone")}
	d := NewDashboard(src, nil)

	_, err := d.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatasetUnavailable, apperrors.GetCode(err))

	_, err = d.Chart(context.Background(), "target_count")
	assert.Error(t, err)
	assert.Equal(t, int32(1), src.reads.Load())

	_, err = d.Chart(context.Background(), "pie")
	assert.ErrorIs(t, err, core.ErrUnknownChart)
}

func TestNewSnapshot_RejectsNonFiniteAge(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		tbl := sampleTable(t)
		tbl.Rows[0][tbl.Index("age")] = v

		done := make(chan error, 1)
		go func() {
			_, err := NewSnapshot("sample", tbl)
			done <- err
		}()
		select {
		case err := <-done:
			assert.True(t, errors.Is(err, core.ErrInvalidValue))
		case <-time.After(5 * time.Second):
			t.Fatalf("NewSnapshot did not return for age=%g", v)
		}
	}
}

func TestBuild_AgeDistributionNeedsFiniteAges(t *testing.T) {
	tbl := sampleTable(t)
	tbl.Rows[0][tbl.Index("age")] = math.Inf(1)

	_, err := Build(KindAgeDistribution, tbl)
	assert.True(t, errors.Is(err, core.ErrInvalidValue))
}
