package excel

// ExcelConfig holds configuration for the file data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the XLSX sheet to read; empty means the first sheet.
	Sheet string `json:"sheet"`
}

// DefaultExcelConfig returns the defaults for the heart dataset file
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath: "heart_statlog_cleveland_hungary_final.csv",
	}
}
