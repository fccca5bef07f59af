// Package patient defines the twelve-column clinical record scored by the
// classifier and the canonical bounds and encodings of each column.
package patient

// Encoding names the categorical encoding the canonical record uses. It matches
// the column coding of the statlog (Cleveland + Hungary) heart dataset.
const Encoding = "statlog"

// Column names in trained order. Vector() emits values in exactly this order.
const (
	ColAge                = "age"
	ColSex                = "sex"
	ColChestPainType      = "chest pain type"
	ColRestingBP          = "resting bp s"
	ColCholesterol        = "cholesterol"
	ColFastingBloodSugar  = "fasting blood sugar"
	ColRestingECG         = "resting ecg"
	ColMaxHeartRate       = "max heart rate"
	ColExerciseAngina     = "exercise angina"
	ColOldpeak            = "oldpeak"
	ColSTSlope            = "ST slope"
	ColMaxHeartRatePerAge = "max_heart_rate_per_age"
)

// Columns is the feature schema expected by the artifact.
var Columns = []string{
	ColAge,
	ColSex,
	ColChestPainType,
	ColRestingBP,
	ColCholesterol,
	ColFastingBloodSugar,
	ColRestingECG,
	ColMaxHeartRate,
	ColExerciseAngina,
	ColOldpeak,
	ColSTSlope,
	ColMaxHeartRatePerAge,
}

// Kind distinguishes range-bounded numbers from closed option sets.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// FieldSpec is the canonical constraint on one raw input column.
type FieldSpec struct {
	Column string
	Kind   Kind
	Min    float64
	Max    float64
	Codes  []int // categorical only
}

// Allows reports whether v satisfies the spec.
func (f FieldSpec) Allows(v float64) bool {
	if f.Kind == KindCategorical {
		for _, c := range f.Codes {
			if float64(c) == v {
				return true
			}
		}
		return false
	}
	return v >= f.Min && v <= f.Max
}

// CanonicalFields lists the eleven raw inputs in column order. The bounds are the
// union of every form profile's bounds.
var CanonicalFields = []FieldSpec{
	{Column: ColAge, Kind: KindNumeric, Min: 20, Max: 100},
	{Column: ColSex, Kind: KindCategorical, Codes: []int{0, 1}},
	{Column: ColChestPainType, Kind: KindCategorical, Codes: []int{1, 2, 3, 4}},
	{Column: ColRestingBP, Kind: KindNumeric, Min: 80, Max: 200},
	{Column: ColCholesterol, Kind: KindNumeric, Min: 80, Max: 603},
	{Column: ColFastingBloodSugar, Kind: KindCategorical, Codes: []int{0, 1}},
	{Column: ColRestingECG, Kind: KindCategorical, Codes: []int{0, 1, 2}},
	{Column: ColMaxHeartRate, Kind: KindNumeric, Min: 60, Max: 220},
	{Column: ColExerciseAngina, Kind: KindCategorical, Codes: []int{0, 1}},
	{Column: ColOldpeak, Kind: KindNumeric, Min: -3.0, Max: 6.2},
	{Column: ColSTSlope, Kind: KindCategorical, Codes: []int{1, 2, 3}},
}

// FieldFor returns the canonical spec of a raw column.
func FieldFor(column string) (FieldSpec, bool) {
	for _, f := range CanonicalFields {
		if f.Column == column {
			return f, true
		}
	}
	return FieldSpec{}, false
}
