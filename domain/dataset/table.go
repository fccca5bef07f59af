// Package dataset holds the numeric heart-disease table used by the EDA
// dashboard and its cleaning pipeline.
package dataset

import (
	"fmt"
	"math"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
)

// ColTarget is the label column of the training dataset.
const ColTarget = "target"

// RequiredColumns must all be present for the dashboard to render.
var RequiredColumns = []string{
	patient.ColAge,
	patient.ColSex,
	patient.ColChestPainType,
	patient.ColRestingBP,
	patient.ColCholesterol,
	patient.ColFastingBloodSugar,
	patient.ColRestingECG,
	patient.ColMaxHeartRate,
	patient.ColExerciseAngina,
	patient.ColOldpeak,
	patient.ColSTSlope,
	ColTarget,
}

// Table is an ordered header plus numeric rows. Every row has len(Header) cells.
type Table struct {
	Header []string    `json:"header"`
	Rows   [][]float64 `json:"rows"`
}

// Index returns the position of column in the header, or -1.
func (t *Table) Index(column string) int {
	for i, h := range t.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Column copies one column out of the table.
func (t *Table) Column(column string) ([]float64, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, core.NewMissingColumnError(column)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Validate checks the required columns, row widths and that every cell is finite.
func (t *Table) Validate() error {
	for _, col := range RequiredColumns {
		if t.Index(col) < 0 {
			return core.NewMissingColumnError(col)
		}
	}
	if len(t.Rows) == 0 {
		return core.ErrEmptyDataset
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(t.Header))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d column %q is %g", core.ErrInvalidValue, i, t.Header[j], v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]float64, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]float64(nil), row...)
	}
	return c
}

// Hash fingerprints the table contents.
func (t *Table) Hash() core.DatasetHash {
	return core.ComputeDatasetHash(t.Header, t.Rows)
}

// GroupBy splits column values by the value of the target column.
func (t *Table) GroupBy(column string) (map[int][]float64, error) {
	vals, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	targets, err := t.Column(ColTarget)
	if err != nil {
		return nil, err
	}
	groups := make(map[int][]float64)
	for i, v := range vals {
		k := int(targets[i])
		groups[k] = append(groups[k], v)
	}
	return groups, nil
}
