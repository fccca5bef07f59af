package dataset

import (
	"errors"
	"math"
	"testing"

	"heartrisk/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a full dataset row; columns follow RequiredColumns order.
func row(age, bp, chol, target float64) []float64 {
	return []float64{age, 1, 2, bp, chol, 0, 0, 150, 0, 1.0, 2, target}
}

func sampleTable() *Table {
	return &Table{
		Header: append([]string(nil), RequiredColumns...),
		Rows: [][]float64{
			row(40, 140, 289, 0),
			row(49, 160, 180, 1),
			row(40, 140, 289, 0), // duplicate of row 0
			row(37, 0, 283, 0),   // zero resting bp
			row(48, 138, 0, 1),   // zero cholesterol
			row(54, 150, 195, 0),
			row(39, 120, 339, 0),
			row(45, 130, 0, 1), // zero cholesterol
		},
	}
}

func TestClean_AppliesAllSteps(t *testing.T) {
	in := sampleTable()
	out, report, err := Clean(in)
	require.NoError(t, err)

	assert.Equal(t, 8, report.RowsIn)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Equal(t, 1, report.ZeroRestingBPDrop)
	assert.Equal(t, 2, report.CholesterolImputed)
	assert.True(t, report.MedianAvailable)
	// non-zero cholesterol after the drops: 289, 180, 195, 339 -> median 242
	assert.Equal(t, 242.0, report.CholesterolMedian)
	assert.Equal(t, 6, report.RowsOut)
	assert.Len(t, out.Rows, 6)

	chol, err := out.Column("cholesterol")
	require.NoError(t, err)
	for _, c := range chol {
		assert.NotZero(t, c)
	}
	bp, err := out.Column("resting bp s")
	require.NoError(t, err)
	for _, b := range bp {
		assert.NotZero(t, b)
	}

	// the input is untouched
	assert.Len(t, in.Rows, 8)
	assert.Equal(t, 0.0, in.Rows[4][4])
}

func TestClean_IsIdempotent(t *testing.T) {
	once, _, err := Clean(sampleTable())
	require.NoError(t, err)

	twice, report, err := Clean(once)
	require.NoError(t, err)

	assert.Equal(t, once.Hash(), twice.Hash())
	assert.Equal(t, once.Rows, twice.Rows)
	assert.Zero(t, report.DuplicatesDropped)
	assert.Zero(t, report.ZeroRestingBPDrop)
	assert.Zero(t, report.CholesterolImputed)
}

func TestClean_ImputationTwinsAreDeduped(t *testing.T) {
	tbl := &Table{
		Header: append([]string(nil), RequiredColumns...),
		Rows: [][]float64{
			row(50, 130, 200, 0),
			row(60, 130, 0, 1),
			row(60, 130, 200, 1), // becomes a twin of the row above after imputing 200
		},
	}
	once, report, err := Clean(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Len(t, once.Rows, 2)

	twice, _, err := Clean(once)
	require.NoError(t, err)
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestClean_AllCholesterolZero(t *testing.T) {
	tbl := &Table{
		Header: append([]string(nil), RequiredColumns...),
		Rows:   [][]float64{row(50, 130, 0, 0), row(51, 131, 0, 1)},
	}
	out, report, err := Clean(tbl)
	require.NoError(t, err)
	assert.False(t, report.MedianAvailable)
	assert.Zero(t, report.CholesterolImputed)
	assert.Len(t, out.Rows, 2)
}

func TestClean_RejectsBadTables(t *testing.T) {
	_, _, err := Clean(&Table{Header: []string{"age"}, Rows: [][]float64{{1}}})
	assert.True(t, errors.Is(err, core.ErrMissingColumn))

	_, _, err = Clean(&Table{Header: append([]string(nil), RequiredColumns...)})
	assert.True(t, errors.Is(err, core.ErrEmptyDataset))
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		tbl := sampleTable()
		tbl.Rows[1][0] = v

		err := tbl.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrInvalidValue))
		assert.ErrorContains(t, err, `row 1 column "age"`)

		_, _, err = Clean(tbl)
		assert.True(t, errors.Is(err, core.ErrInvalidValue))
	}
}

func TestGroupBy(t *testing.T) {
	groups, err := sampleTable().GroupBy("age")
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{40, 40, 37, 54, 39}, groups[0])
	assert.ElementsMatch(t, []float64{49, 48, 45}, groups[1])
}

func TestDescribe(t *testing.T) {
	tbl := &Table{
		Header: []string{"x"},
		Rows:   [][]float64{{1}, {2}, {3}, {4}, {5}},
	}
	summaries, err := Describe(tbl)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.5811388300841898, s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 5.0, s.Max)
	assert.LessOrEqual(t, s.Q1, s.Median)
	assert.GreaterOrEqual(t, s.Q3, s.Median)
}
