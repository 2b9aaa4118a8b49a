package report

import (
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const DefaultTitle = "Relatório de Riscos GUT"

var ErrUnsupportedFormat = goerr.New("unsupported report format")

// Data is the input of every generator. Records must already be ranked.
type Data struct {
	Title       string
	GeneratedAt time.Time
	// FilterSummary describes the applied filter, empty for all records
	FilterSummary string
	Records       []*model.RiskRecord
	Dashboard     *model.Dashboard
}

// Generator renders report data into one file format
type Generator interface {
	Generate(data *Data) ([]byte, error)
}

// New returns the generator for format
func New(format types.ReportFormat) (Generator, error) {
	switch format {
	case types.ReportFormatCSV:
		return NewCSVGenerator(), nil
	case types.ReportFormatXLSX:
		return NewXLSXGenerator(), nil
	case types.ReportFormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "no generator for format", goerr.V("format", format))
	}
}

// NewData ranks records and builds the summary section
func NewData(title, filterSummary string, records []*model.RiskRecord, generatedAt time.Time) *Data {
	if title == "" {
		title = DefaultTitle
	}
	return &Data{
		Title:         title,
		GeneratedAt:   generatedAt,
		FilterSummary: filterSummary,
		Records:       model.Rank(records),
		Dashboard:     model.BuildDashboard(records, 0),
	}
}

// columns shared by the tabular formats
var columns = []string{
	"Posição", "Título", "Área", "G", "U", "T", "Score", "Nível", "Prioridade", "Status", "Ação imediata", "Criado em",
}

func recordRow(rank int, r *model.RiskRecord) []string {
	return []string{
		itoa(rank),
		r.Title,
		r.Area,
		itoa(r.Gravity),
		itoa(r.Urgency),
		itoa(r.Tendency),
		itoa(r.Score),
		r.RowLevel().String(),
		r.Priority().String(),
		r.Status.String(),
		r.ImmediateAction,
		r.CreatedAt.Format(time.RFC3339),
	}
}
