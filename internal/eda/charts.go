// Package eda computes the exploratory charts over the cleaned heart dataset
// and renders them to SVG.
package eda

import (
	"fmt"
	"math"
	"sort"

	"heartrisk/domain/core"
	"heartrisk/domain/dataset"
	"heartrisk/domain/patient"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	KindTargetCount        core.ChartKind = "target_count"
	KindAgeDistribution    core.ChartKind = "age_distribution"
	KindSexVsTarget        core.ChartKind = "sex_vs_target"
	KindFeatureBoxplots    core.ChartKind = "feature_boxplots"
	KindCorrelationHeatmap core.ChartKind = "correlation_heatmap"
	KindOutlierBoxplots    core.ChartKind = "outlier_boxplots"
	KindRatioScatter       core.ChartKind = "ratio_scatter"
)

// Kinds lists the charts in menu order.
var Kinds = []core.ChartKind{
	KindTargetCount,
	KindAgeDistribution,
	KindSexVsTarget,
	KindFeatureBoxplots,
	KindCorrelationHeatmap,
	KindOutlierBoxplots,
	KindRatioScatter,
}

var titles = map[core.ChartKind]string{
	KindTargetCount:        "Heart disease distribution",
	KindAgeDistribution:    "Age distribution by target",
	KindSexVsTarget:        "Sex vs heart disease",
	KindFeatureBoxplots:    "Numeric features by target",
	KindCorrelationHeatmap: "Correlation heatmap",
	KindOutlierBoxplots:    "Outlier check",
	KindRatioScatter:       "Max heart rate per age vs age",
}

// Title returns the menu label of a chart kind.
func Title(kind core.ChartKind) string {
	return titles[kind]
}

// ParseKind validates a chart kind name.
func ParseKind(s string) (core.ChartKind, error) {
	kind, err := core.ParseChartKind(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUnknownChart, err)
	}
	if _, ok := titles[kind]; !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownChart, s)
	}
	return kind, nil
}

// boxplotFeatures are split by target; outlierFeatures are shown unsplit.
var (
	boxplotFeatures = []string{patient.ColAge, patient.ColRestingBP, patient.ColCholesterol, patient.ColMaxHeartRate, patient.ColOldpeak}
	outlierFeatures = []string{patient.ColRestingBP, patient.ColCholesterol, patient.ColOldpeak}
)

const ageBinWidth = 5

// Chart is the data behind one chart. Only the fields of its kind are set.
type Chart struct {
	Kind    core.ChartKind `json:"kind"`
	Title   string         `json:"title"`
	XLabel  string         `json:"x_label"`
	YLabel  string         `json:"y_label"`
	Counts  []Count        `json:"counts,omitempty"`
	Bins    []Bin          `json:"bins,omitempty"`
	Boxes   []Box          `json:"boxes,omitempty"`
	Heatmap *Heatmap       `json:"heatmap,omitempty"`
	Points  []Point        `json:"points,omitempty"`
}

// Count is one category with its row count per target class.
type Count struct {
	Label   string `json:"label"`
	ByClass [2]int `json:"by_class"`
}

// Bin is a histogram bucket [Lo, Hi) with counts per target class.
type Bin struct {
	Lo      float64 `json:"lo"`
	Hi      float64 `json:"hi"`
	ByClass [2]int  `json:"by_class"`
}

// Box is a five-number summary with Tukey whiskers (1.5 IQR).
type Box struct {
	Column   string    `json:"column"`
	Group    string    `json:"group"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	LowerW   float64   `json:"lower_whisker"`
	UpperW   float64   `json:"upper_whisker"`
	Outliers []float64 `json:"outliers"`
	values   []float64
}

// Heatmap is a symmetric Pearson correlation matrix. Undefined
// correlations (constant columns) are reported as 0.
type Heatmap struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
}

// Point is one row of the ratio scatter.
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target int     `json:"target"`
}

// Build computes the data of one chart from a cleaned table.
func Build(kind core.ChartKind, t *dataset.Table) (*Chart, error) {
	c := &Chart{Kind: kind, Title: Title(kind)}
	var err error
	switch kind {
	case KindTargetCount:
		c.XLabel, c.YLabel = "target", "count"
		c.Counts, err = targetCounts(t)
	case KindAgeDistribution:
		c.XLabel, c.YLabel = patient.ColAge, "count"
		c.Bins, err = ageBins(t)
	case KindSexVsTarget:
		c.XLabel, c.YLabel = patient.ColSex, "count"
		c.Counts, err = sexCounts(t)
	case KindFeatureBoxplots:
		c.XLabel, c.YLabel = "target", "value"
		c.Boxes, err = groupedBoxes(t, boxplotFeatures)
	case KindCorrelationHeatmap:
		c.Heatmap, err = correlation(t)
	case KindOutlierBoxplots:
		c.YLabel = "value"
		c.Boxes, err = plainBoxes(t, outlierFeatures)
	case KindRatioScatter:
		c.XLabel, c.YLabel = patient.ColAge, patient.ColMaxHeartRatePerAge
		c.Points, err = ratioPoints(t)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownChart, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", kind, err)
	}
	return c, nil
}

func targetOf(v float64) int {
	if v == 1 {
		return 1
	}
	return 0
}

func targetCounts(t *dataset.Table) ([]Count, error) {
	targets, err := t.Column(dataset.ColTarget)
	if err != nil {
		return nil, err
	}
	counts := []Count{{Label: "0 (no disease)"}, {Label: "1 (disease)"}}
	for _, v := range targets {
		k := targetOf(v)
		counts[k].ByClass[k]++
	}
	return counts, nil
}

func sexCounts(t *dataset.Table) ([]Count, error) {
	sex, err := t.Column(patient.ColSex)
	if err != nil {
		return nil, err
	}
	targets, err := t.Column(dataset.ColTarget)
	if err != nil {
		return nil, err
	}
	counts := []Count{{Label: "0 (female)"}, {Label: "1 (male)"}}
	for i, s := range sex {
		counts[targetOf(s)].ByClass[targetOf(targets[i])]++
	}
	return counts, nil
}

func ageBins(t *dataset.Table) ([]Bin, error) {
	groups, err := t.GroupBy(patient.ColAge)
	if err != nil {
		return nil, err
	}
	ages, err := t.Column(patient.ColAge)
	if err != nil {
		return nil, err
	}
	if len(ages) == 0 {
		return nil, core.ErrEmptyDataset
	}

	minAge, maxAge := floats.Min(ages), floats.Max(ages)
	if floats.HasNaN(ages) || math.IsInf(minAge, 0) || math.IsInf(maxAge, 0) {
		return nil, fmt.Errorf("%w: age must be finite", core.ErrInvalidValue)
	}
	lo := math.Floor(minAge/ageBinWidth) * ageBinWidth
	hi := math.Floor(maxAge/ageBinWidth)*ageBinWidth + ageBinWidth
	var dividers []float64
	for d := lo; d <= hi; d += ageBinWidth {
		dividers = append(dividers, d)
	}

	bins := make([]Bin, len(dividers)-1)
	for i := range bins {
		bins[i].Lo, bins[i].Hi = dividers[i], dividers[i+1]
	}
	for class := 0; class <= 1; class++ {
		x := append([]float64(nil), groups[class]...)
		if len(x) == 0 {
			continue
		}
		sort.Float64s(x)
		for i, n := range stat.Histogram(nil, dividers, x, nil) {
			bins[i].ByClass[class] = int(n)
		}
	}
	return bins, nil
}

func groupedBoxes(t *dataset.Table, columns []string) ([]Box, error) {
	var boxes []Box
	for _, col := range columns {
		groups, err := t.GroupBy(col)
		if err != nil {
			return nil, err
		}
		for class := 0; class <= 1; class++ {
			b, err := newBox(col, fmt.Sprintf("target=%d", class), groups[class])
			if err != nil {
				return nil, err
			}
			boxes = append(boxes, b)
		}
	}
	return boxes, nil
}

func plainBoxes(t *dataset.Table, columns []string) ([]Box, error) {
	boxes := make([]Box, 0, len(columns))
	for _, col := range columns {
		vals, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		b, err := newBox(col, "all", vals)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, nil
}

func newBox(column, group string, values []float64) (Box, error) {
	b := Box{Column: column, Group: group, Outliers: []float64{}, values: values}
	if len(values) == 0 {
		return b, nil
	}
	data := stats.Float64Data(values)
	median, err := data.Median()
	if err != nil {
		return b, err
	}
	b.Q1, b.Median, b.Q3 = median, median, median
	if len(values) >= 2 {
		q, err := stats.Quartile(data)
		if err != nil {
			return b, err
		}
		b.Q1, b.Q3 = q.Q1, q.Q3
	}

	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerW, b.UpperW = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerW = math.Min(b.LowerW, v)
		b.UpperW = math.Max(b.UpperW, v)
	}
	sort.Float64s(b.Outliers)
	return b, nil
}

func correlation(t *dataset.Table) (*Heatmap, error) {
	if len(t.Rows) == 0 {
		return nil, core.ErrEmptyDataset
	}
	cols := make([][]float64, len(t.Header))
	for i, name := range t.Header {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	n := len(cols)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return &Heatmap{Columns: append([]string(nil), t.Header...), Matrix: m}, nil
}

func ratioPoints(t *dataset.Table) ([]Point, error) {
	ai, mi, ti := t.Index(patient.ColAge), t.Index(patient.ColMaxHeartRate), t.Index(dataset.ColTarget)
	for col, idx := range map[string]int{patient.ColAge: ai, patient.ColMaxHeartRate: mi, dataset.ColTarget: ti} {
		if idx < 0 {
			return nil, core.NewMissingColumnError(col)
		}
	}
	points := make([]Point, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row[ai] <= 0 {
			continue
		}
		points = append(points, Point{X: row[ai], Y: row[mi] / row[ai], Target: targetOf(row[ti])})
	}
	return points, nil
}
