package patient

import (
	"fmt"

	"heartrisk/domain/core"
)

// Inputs holds the eleven raw clinical attributes in canonical encoding.
type Inputs struct {
	Age               int     `json:"age"`
	Sex               int     `json:"sex"`
	ChestPainType     int     `json:"chest_pain_type"`
	RestingBP         int     `json:"resting_bp"`
	Cholesterol       int     `json:"cholesterol"`
	FastingBloodSugar int     `json:"fasting_blood_sugar"`
	RestingECG        int     `json:"resting_ecg"`
	MaxHeartRate      int     `json:"max_heart_rate"`
	ExerciseAngina    int     `json:"exercise_angina"`
	Oldpeak           float64 `json:"oldpeak"`
	STSlope           int     `json:"st_slope"`
}

// Value returns the raw value of a column by name.
func (in Inputs) Value(column string) (float64, bool) {
	switch column {
	case ColAge:
		return float64(in.Age), true
	case ColSex:
		return float64(in.Sex), true
	case ColChestPainType:
		return float64(in.ChestPainType), true
	case ColRestingBP:
		return float64(in.RestingBP), true
	case ColCholesterol:
		return float64(in.Cholesterol), true
	case ColFastingBloodSugar:
		return float64(in.FastingBloodSugar), true
	case ColRestingECG:
		return float64(in.RestingECG), true
	case ColMaxHeartRate:
		return float64(in.MaxHeartRate), true
	case ColExerciseAngina:
		return float64(in.ExerciseAngina), true
	case ColOldpeak:
		return in.Oldpeak, true
	case ColSTSlope:
		return float64(in.STSlope), true
	}
	return 0, false
}

// Set assigns a raw column by name. Integer columns truncate v.
func (in *Inputs) Set(column string, v float64) error {
	switch column {
	case ColAge:
		in.Age = int(v)
	case ColSex:
		in.Sex = int(v)
	case ColChestPainType:
		in.ChestPainType = int(v)
	case ColRestingBP:
		in.RestingBP = int(v)
	case ColCholesterol:
		in.Cholesterol = int(v)
	case ColFastingBloodSugar:
		in.FastingBloodSugar = int(v)
	case ColRestingECG:
		in.RestingECG = int(v)
	case ColMaxHeartRate:
		in.MaxHeartRate = int(v)
	case ColExerciseAngina:
		in.ExerciseAngina = int(v)
	case ColOldpeak:
		in.Oldpeak = v
	case ColSTSlope:
		in.STSlope = int(v)
	default:
		return fmt.Errorf("unknown column %q", column)
	}
	return nil
}

// Validate checks every raw column against CanonicalFields.
func (in Inputs) Validate() error {
	if in.Age <= 0 {
		return fmt.Errorf("%w: got %d", core.ErrNonPositiveAge, in.Age)
	}
	for _, f := range CanonicalFields {
		v, _ := in.Value(f.Column)
		if f.Allows(v) {
			continue
		}
		if f.Kind == KindCategorical {
			return core.NewOptionError(f.Column, v)
		}
		return core.NewRangeError(f.Column, v, f.Min, f.Max)
	}
	return nil
}

// Record is one validated patient row, including the derived ratio.
type Record struct {
	Inputs
	MaxHeartRatePerAge float64 `json:"max_heart_rate_per_age"`
}

// NewRecord validates in and derives max_heart_rate_per_age.
func NewRecord(in Inputs) (Record, error) {
	if err := in.Validate(); err != nil {
		return Record{}, err
	}
	return Record{
		Inputs:             in,
		MaxHeartRatePerAge: float64(in.MaxHeartRate) / float64(in.Age),
	}, nil
}

// Vector returns the twelve features in Columns order.
func (r Record) Vector() []float64 {
	return []float64{
		float64(r.Age),
		float64(r.Sex),
		float64(r.ChestPainType),
		float64(r.RestingBP),
		float64(r.Cholesterol),
		float64(r.FastingBloodSugar),
		float64(r.RestingECG),
		float64(r.MaxHeartRate),
		float64(r.ExerciseAngina),
		r.Oldpeak,
		float64(r.STSlope),
		r.MaxHeartRatePerAge,
	}
}

// Cell is one labelled value of a record, for display.
type Cell struct {
	Column string
	Value  float64
}

// Cells returns the eleven raw columns with their values; the derived ratio is
// left out, as on the entered-data table.
func (r Record) Cells() []Cell {
	cells := make([]Cell, 0, len(CanonicalFields))
	for _, f := range CanonicalFields {
		v, _ := r.Value(f.Column)
		cells = append(cells, Cell{Column: f.Column, Value: v})
	}
	return cells
}
