package excel

// RawRowData is one data row as read from the file, cells in header order.
type RawRowData []string

// ExcelData is the raw string content of a CSV or XLSX file.
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
