package models

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportValidationFailed ImportStatus = "validation_failed"
)

// ImportRowError describes why one spreadsheet row was skipped. Row is 1-based and counts the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
	Code    string `json:"code"`
}

// ImportResult summarises a question import. Form is the saved form when at least one row was imported.
type ImportResult struct {
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	ErrorCount   int              `json:"errorCount"`
	Errors       []ImportRowError `json:"errors"`
	Status       ImportStatus     `json:"status"`
	Form         *Form            `json:"form,omitempty"`
}
