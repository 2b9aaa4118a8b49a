package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
)

var (
	colorPrimary     = [3]int{30, 58, 95}
	colorTextDark    = [3]int{44, 62, 80}
	colorTextMuted   = [3]int{127, 140, 141}
	colorTableHeader = [3]int{30, 58, 95}

	levelColors = map[types.RowLevel][3]int{
		types.RowLevelCritical: {248, 215, 218},
		types.RowLevelMedium:   {255, 243, 205},
		types.RowLevelLow:      {212, 237, 218},
	}
)

type pdfColumn struct {
	title string
	width float64
	align string
}

// landscape A4 has 257mm of usable width with 20mm margins
var pdfColumns = []pdfColumn{
	{"#", 10, "C"},
	{"Título", 80, "L"},
	{"Área", 38, "L"},
	{"G", 9, "C"},
	{"U", 9, "C"},
	{"T", 9, "C"},
	{"Score", 15, "C"},
	{"Prioridade", 40, "L"},
	{"Status", 27, "L"},
	{"Criado", 20, "C"},
}

// PDFGenerator renders a landscape PDF with a summary and the ranked table
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

func (g *PDFGenerator) Generate(data *Data) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	g.writeTitle(pdf, tr, data)
	g.writeSummary(pdf, tr, data)
	g.writeTable(pdf, tr, data)
	g.addPageNumbers(pdf)

	if err := pdf.Error(); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to write PDF")
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) writeTitle(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	pageWidth, _ := pdf.GetPageSize()
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 6, "F")

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	meta := "Gerado em " + data.GeneratedAt.Format("02/01/2006 15:04 MST")
	if data.FilterSummary != "" {
		meta += "  |  Filtro: " + data.FilterSummary
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (g *PDFGenerator) writeSummary(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	d := data.Dashboard
	if d == nil {
		return
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 7, tr("Resumo"), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Total de registros: %d", d.Total),
		fmt.Sprintf("Críticos: %d   Médios: %d   Baixos: %d",
			d.ByRowLevel[types.RowLevelCritical], d.ByRowLevel[types.RowLevelMedium], d.ByRowLevel[types.RowLevelLow]),
	}
	if d.TopAreaByScore != nil {
		lines = append(lines, fmt.Sprintf("Área com maior score acumulado: %s (%d)", d.TopAreaByScore.Area, d.TopAreaByScore.Total))
	}
	if d.TopAreaByCount != nil {
		lines = append(lines, fmt.Sprintf("Área com mais ocorrências: %s (%d)", d.TopAreaByCount.Area, d.TopAreaByCount.Total))
	}
	for _, line := range lines {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *PDFGenerator) writeTableHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
	pdf.SetTextColor(255, 255, 255)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (g *PDFGenerator) writeTable(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	if len(data.Records) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, tr("Nenhum registro encontrado."), "", 1, "L", false, 0, "")
		return
	}

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	g.writeTableHeader(pdf, tr)
	pdf.SetFont("Arial", "", 8)

	for i, r := range data.Records {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			g.writeTableHeader(pdf, tr)
			pdf.SetFont("Arial", "", 8)
		}

		fill := levelColors[r.RowLevel()]
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])

		values := []string{
			itoa(i + 1),
			fitText(pdf, tr(r.Title), pdfColumns[1].width),
			fitText(pdf, tr(r.Area), pdfColumns[2].width),
			itoa(r.Gravity),
			itoa(r.Urgency),
			itoa(r.Tendency),
			itoa(r.Score),
			tr(r.Priority().String()),
			r.Status.String(),
			r.CreatedAt.Format(time.DateOnly),
		}
		for j, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, values[j], "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fitText shortens s until it fits in a cell of width mm
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func (g *PDFGenerator) addPageNumbers(pdf *fpdf.Fpdf) {
	total := pdf.PageCount()
	pageWidth, pageHeight := pdf.GetPageSize()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
		pdf.SetXY(pageWidth-50, pageHeight-12)
		pdf.CellFormat(30, 5, fmt.Sprintf("%d / %d", i, total), "", 0, "R", false, 0, "")
	}
}
