package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/service/report"
	"github.com/m-mizutani/gt"
	"github.com/xuri/excelize/v2"
)

func newRisk(t *testing.T, title, area string, g, u, tend int) *model.RiskRecord {
	t.Helper()
	r := model.NewRiskRecord(title, "", area)
	gt.NoError(t, r.SetFactors(g, u, tend)).Required()
	r.CreatedAt = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	return r
}

func sampleData(t *testing.T) *report.Data {
	t.Helper()
	records := []*model.RiskRecord{
		newRisk(t, "Ruído no soprador", "Utilidades", 2, 2, 2),
		newRisk(t, "Vazamento no gasômetro", "Gasômetro", 5, 5, 4),
		newRisk(t, "Espuma no biodigestor", "Biodigestor", 4, 3, 4),
		newRisk(t, "Sensor de pH descalibrado", "Biodigestor", 3, 2, 2),
	}
	return report.NewData("", "", records, time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC))
}

func TestNew(t *testing.T) {
	for _, f := range []types.ReportFormat{types.ReportFormatCSV, types.ReportFormatXLSX, types.ReportFormatPDF} {
		g, err := report.New(f)
		gt.NoError(t, err)
		gt.Value(t, g).NotNil()
	}

	_, err := report.New("docx")
	gt.Error(t, err).Is(report.ErrUnsupportedFormat)
}

func TestNewDataRanksRecords(t *testing.T) {
	data := sampleData(t)
	gt.Value(t, data.Title).Equal(report.DefaultTitle)
	gt.Array(t, data.Records).Length(4).Required()
	gt.Value(t, data.Records[0].Score).Equal(100)
	gt.Value(t, data.Records[3].Score).Equal(8)
	gt.Value(t, data.Dashboard.TopAreaByScore.Area).Equal("Gasômetro")
	gt.Value(t, data.Dashboard.TopAreaByCount.Area).Equal("Biodigestor")
}

func TestCSV(t *testing.T) {
	out, err := report.NewCSVGenerator().Generate(sampleData(t))
	gt.NoError(t, err).Required()

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	gt.NoError(t, err).Required()

	headerAt := -1
	for i, row := range rows {
		if row[0] == "Posição" {
			headerAt = i
			break
		}
	}
	gt.Bool(t, headerAt > 0).True()

	first := rows[headerAt+1]
	gt.Value(t, first[1]).Equal("Vazamento no gasômetro")
	gt.Value(t, first[6]).Equal("100")
	gt.Value(t, first[7]).Equal("CRITICAL")
	gt.Value(t, first[8]).Equal("Emergência Crítica")

	// 48 is MEDIUM in the table but "Média Prioridade" on the banner
	second := rows[headerAt+2]
	gt.Value(t, second[6]).Equal("48")
	gt.Value(t, second[7]).Equal("MEDIUM")
	gt.Value(t, second[8]).Equal("Média Prioridade")

	last := rows[len(rows)-1]
	gt.Value(t, last).Equal([]string{"Utilidades", "8", "1"})
}

func TestXLSX(t *testing.T) {
	out, err := report.NewXLSXGenerator().Generate(sampleData(t))
	gt.NoError(t, err).Required()

	f, err := excelize.OpenReader(bytes.NewReader(out))
	gt.NoError(t, err).Required()
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Riscos")
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(5).Required()
	gt.Value(t, rows[0][0]).Equal("Posição")
	gt.Value(t, rows[1][1]).Equal("Vazamento no gasômetro")
	gt.Value(t, rows[1][6]).Equal("100")

	areas, err := f.GetRows("Áreas")
	gt.NoError(t, err).Required()
	gt.Array(t, areas).Length(4).Required()
	gt.Value(t, areas[1][0]).Equal("Gasômetro")
}

func TestPDF(t *testing.T) {
	out, err := report.NewPDFGenerator().Generate(sampleData(t))
	gt.NoError(t, err).Required()
	gt.Bool(t, bytes.HasPrefix(out, []byte("%PDF-"))).True()

	empty, err := report.NewPDFGenerator().Generate(report.NewData("Vazio", "área=Flare", nil, time.Now()))
	gt.NoError(t, err).Required()
	gt.Bool(t, bytes.HasPrefix(empty, []byte("%PDF-"))).True()
}

func TestPDFManyPages(t *testing.T) {
	var records []*model.RiskRecord
	for i := range 120 {
		records = append(records, newRisk(t, "Registro de inspeção com título bastante longo para testar o corte de texto na tabela", "Área", 1+i%5, 1+(i/5)%5, 3))
	}
	out, err := report.NewPDFGenerator().Generate(report.NewData("", "", records, time.Now()))
	gt.NoError(t, err).Required()
	gt.Bool(t, len(out) > 0).True()
}
