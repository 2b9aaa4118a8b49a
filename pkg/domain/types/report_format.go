package types

import "fmt"

// ReportFormat is the output format of an exported report
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ContentType returns the MIME type of the format
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatCSV:
		return "text/csv"
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ReportFormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ParseReportFormat parses a string into a ReportFormat
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(s); f {
	case ReportFormatCSV, ReportFormatXLSX, ReportFormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("invalid report format: %s", s)
	}
}
