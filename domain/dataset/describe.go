package dataset

import (
	"github.com/montanaflynn/stats"
)

// ColumnSummary is one row of the describe table.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Describe computes count, mean, sample std, min, quartiles and max per column.
func Describe(t *Table) ([]ColumnSummary, error) {
	out := make([]ColumnSummary, 0, len(t.Header))
	for _, col := range t.Header {
		vals, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		s, err := summarize(col, vals)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func summarize(col string, data stats.Float64Data) (ColumnSummary, error) {
	s := ColumnSummary{Column: col, Count: data.Len()}
	if data.Len() == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return s, err
	}
	if data.Len() > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}
	if s.Min, err = data.Min(); err != nil {
		return s, err
	}
	if s.Max, err = data.Max(); err != nil {
		return s, err
	}
	if s.Median, err = data.Median(); err != nil {
		return s, err
	}
	s.Q1, s.Q3 = s.Median, s.Median
	if data.Len() >= 2 {
		q, err := stats.Quartile(data)
		if err != nil {
			return s, err
		}
		s.Q1, s.Q3 = q.Q1, q.Q3
	}
	return s, nil
}
