package dataset

import (
	"strconv"
	"strings"

	"heartrisk/domain/patient"

	"github.com/montanaflynn/stats"
)

// CleaningReport summarizes what Clean changed.
type CleaningReport struct {
	RowsIn             int     `json:"rows_in"`
	RowsOut            int     `json:"rows_out"`
	DuplicatesDropped  int     `json:"duplicates_dropped"`
	ZeroRestingBPDrop  int     `json:"zero_resting_bp_dropped"`
	CholesterolImputed int     `json:"cholesterol_imputed"`
	CholesterolMedian  float64 `json:"cholesterol_median"`
	MedianAvailable    bool    `json:"median_available"`
}

// Clean drops exact duplicates, drops rows with resting bp s == 0 and imputes
// cholesterol == 0 with the median of the non-zero cholesterol values. The input
// table is not modified. Clean(Clean(t)) == Clean(t).
func Clean(t *Table) (*Table, CleaningReport, error) {
	report := CleaningReport{RowsIn: len(t.Rows)}
	if err := t.Validate(); err != nil {
		return nil, report, err
	}

	out := t.Clone()

	var n int
	out.Rows, n = dropDuplicates(out.Rows)
	report.DuplicatesDropped += n

	bpIdx := out.Index(patient.ColRestingBP)
	out.Rows, report.ZeroRestingBPDrop = dropWhereZero(out.Rows, bpIdx)

	cholIdx := out.Index(patient.ColCholesterol)
	median, ok, imputed := imputeZeroWithMedian(out.Rows, cholIdx)
	report.CholesterolMedian = median
	report.MedianAvailable = ok
	report.CholesterolImputed = imputed

	// Imputation can turn two distinct rows into twins; dedupe again so a second
	// pass is a no-op.
	if imputed > 0 {
		out.Rows, n = dropDuplicates(out.Rows)
		report.DuplicatesDropped += n
	}

	report.RowsOut = len(out.Rows)
	return out, report, nil
}

func rowKey(row []float64) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// dropDuplicates keeps the first occurrence of each exact row.
func dropDuplicates(rows [][]float64) ([][]float64, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := rows[:0:0]
	for _, row := range rows {
		k := rowKey(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

func dropWhereZero(rows [][]float64, idx int) ([][]float64, int) {
	kept := rows[:0:0]
	for _, row := range rows {
		if row[idx] == 0 {
			continue
		}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

// imputeZeroWithMedian rewrites zero cells of column idx in place. When every
// value is zero there is no median and nothing is imputed.
func imputeZeroWithMedian(rows [][]float64, idx int) (float64, bool, int) {
	nonZero := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row[idx] != 0 {
			nonZero = append(nonZero, row[idx])
		}
	}
	if len(nonZero) == 0 {
		return 0, false, 0
	}
	median, err := stats.Median(nonZero)
	if err != nil {
		return 0, false, 0
	}

	imputed := 0
	for _, row := range rows {
		if row[idx] == 0 {
			row[idx] = median
			imputed++
		}
	}
	return median, true, imputed
}
