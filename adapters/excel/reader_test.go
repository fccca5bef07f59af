package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"heartrisk/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "../../testdata/heart_sample.csv"

func TestDataReader_CSV(t *testing.T) {
	r := NewDataReader(ExcelConfig{FilePath: sampleCSV})
	tbl, err := r.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dataset.RequiredColumns, tbl.Header)
	assert.Len(t, tbl.Rows, 25)
	require.NoError(t, tbl.Validate())
	assert.Equal(t, []float64{40, 1, 2, 140, 289, 0, 0, 172, 0, 0, 1, 0}, tbl.Rows[0])
	assert.Contains(t, r.Describe(), "csv:")
}

func TestDataReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.xlsx")
	f := excelize.NewFile()
	header := []interface{}{}
	for _, h := range dataset.RequiredColumns {
		header = append(header, h)
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{52, 1, 4, 125, 212, 0, 1, 168, 0, 1.0, 1, 1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{53, 0, 3, 140, 203, 1, 0, 155, 1, 3.1, 3, 0}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := NewDataReader(ExcelConfig{FilePath: path}).Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 2)
	assert.Equal(t, 3.1, tbl.Rows[1][9])
}

func TestDataReader_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDataReader(ExcelConfig{FilePath: filepath.Join(dir, "absent.csv")}).Read(context.Background())
	assert.ErrorContains(t, err, "not found")

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("age,sex\n"), 0o644))
	_, err = NewDataReader(ExcelConfig{FilePath: headerOnly}).Read(context.Background())
	assert.Error(t, err)

	text := filepath.Join(dir, "text.csv")
	require.NoError(t, os.WriteFile(text, []byte("age,sex\n50,male\n"), 0o644))
	_, err = NewDataReader(ExcelConfig{FilePath: text}).Read(context.Background())
	assert.ErrorContains(t, err, `"male" is not numeric`)
}

func TestToTable_RejectsNonFinite(t *testing.T) {
	for _, cell := range []string{"NaN", "Inf", "-Inf", "+Infinity"} {
		t.Run(cell, func(t *testing.T) {
			data := &ExcelData{
				Headers: []string{"age", "sex"},
				Rows:    []RawRowData{{"50", "1"}, {cell, "0"}},
			}
			_, err := ToTable(data)
			assert.ErrorContains(t, err, `row 3 column "age"`)
			assert.ErrorContains(t, err, "not a finite number")
		})
	}
}
