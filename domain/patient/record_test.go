package patient

import (
	"errors"
	"testing"

	"heartrisk/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceInputs() Inputs {
	return Inputs{
		Age:               50,
		Sex:               1,
		ChestPainType:     1,
		RestingBP:         130,
		Cholesterol:       237,
		FastingBloodSugar: 0,
		RestingECG:        0,
		MaxHeartRate:      150,
		ExerciseAngina:    0,
		Oldpeak:           0.6,
		STSlope:           1,
	}
}

func TestNewRecord_ReferencePatient(t *testing.T) {
	rec, err := NewRecord(referenceInputs())
	require.NoError(t, err)

	assert.InDelta(t, 3.0, rec.MaxHeartRatePerAge, 1e-12)
	assert.Equal(t, []float64{50, 1, 1, 130, 237, 0, 0, 150, 0, 0.6, 1, 3.0}, rec.Vector())
}

func TestNewRecord_MinimumBounds(t *testing.T) {
	in := referenceInputs()
	in.Age = 40
	in.MaxHeartRate = 60

	rec, err := NewRecord(in)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, rec.MaxHeartRatePerAge, 1e-12)
}

func TestVectorOrderMatchesColumns(t *testing.T) {
	// Give every column a distinct value so a swapped position is visible.
	in := Inputs{
		Age:               61,
		Sex:               1,
		ChestPainType:     4,
		RestingBP:         141,
		Cholesterol:       299,
		FastingBloodSugar: 1,
		RestingECG:        2,
		MaxHeartRate:      122,
		ExerciseAngina:    1,
		Oldpeak:           3.3,
		STSlope:           3,
	}
	rec, err := NewRecord(in)
	require.NoError(t, err)

	vec := rec.Vector()
	require.Len(t, vec, len(Columns))
	require.Len(t, Columns, 12)
	assert.Equal(t, ColMaxHeartRatePerAge, Columns[11])

	for i, col := range Columns[:11] {
		want, ok := in.Value(col)
		require.True(t, ok, col)
		assert.Equalf(t, want, vec[i], "column %d (%s)", i, col)
	}
	assert.InDelta(t, 2.0, vec[11], 1e-12)
}

func TestNewRecord_RatioAcrossValidGrid(t *testing.T) {
	for age := 20; age <= 100; age += 7 {
		for mhr := 60; mhr <= 220; mhr += 23 {
			in := referenceInputs()
			in.Age = age
			in.MaxHeartRate = mhr
			rec, err := NewRecord(in)
			require.NoError(t, err)

			vec := rec.Vector()
			assert.Len(t, vec, 12)
			assert.InDelta(t, float64(mhr)/float64(age), vec[11], 1e-9)
		}
	}
}

func TestNewRecord_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Inputs)
		target error
	}{
		{"zero age", func(in *Inputs) { in.Age = 0 }, core.ErrNonPositiveAge},
		{"negative age", func(in *Inputs) { in.Age = -4 }, core.ErrNonPositiveAge},
		{"age above range", func(in *Inputs) { in.Age = 101 }, core.ErrOutOfRange},
		{"chest pain zero-based", func(in *Inputs) { in.ChestPainType = 0 }, core.ErrUnknownOption},
		{"slope zero-based", func(in *Inputs) { in.STSlope = 0 }, core.ErrUnknownOption},
		{"resting ecg", func(in *Inputs) { in.RestingECG = 3 }, core.ErrUnknownOption},
		{"oldpeak below", func(in *Inputs) { in.Oldpeak = -3.1 }, core.ErrOutOfRange},
		{"oldpeak above", func(in *Inputs) { in.Oldpeak = 6.3 }, core.ErrOutOfRange},
		{"max heart rate low", func(in *Inputs) { in.MaxHeartRate = 59 }, core.ErrOutOfRange},
		{"cholesterol zero", func(in *Inputs) { in.Cholesterol = 0 }, core.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInputs()
			tt.mutate(&in)
			_, err := NewRecord(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.True(t, core.IsValidationError(err))
		})
	}
}

func TestInputsSetRoundTrip(t *testing.T) {
	var in Inputs
	for i, col := range Columns[:11] {
		require.NoError(t, in.Set(col, float64(i+1)))
	}
	for i, col := range Columns[:11] {
		v, ok := in.Value(col)
		require.True(t, ok)
		assert.Equal(t, float64(i+1), v)
	}
	assert.Error(t, in.Set("target", 1))
}

func TestCellsOmitDerivedColumn(t *testing.T) {
	rec, err := NewRecord(referenceInputs())
	require.NoError(t, err)

	cells := rec.Cells()
	require.Len(t, cells, 11)
	for _, c := range cells {
		assert.NotEqual(t, ColMaxHeartRatePerAge, c.Column)
	}
	assert.Equal(t, Cell{Column: ColOldpeak, Value: 0.6}, cells[9])
}
