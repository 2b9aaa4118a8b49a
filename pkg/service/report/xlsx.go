package report

import (
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

const (
	sheetRisks = "Riscos"
	sheetAreas = "Áreas"
)

// row fill per table level
var rowFills = map[types.RowLevel]string{
	types.RowLevelCritical: "#F8D7DA",
	types.RowLevelMedium:   "#FFF3CD",
	types.RowLevelLow:      "#D4EDDA",
}

// XLSXGenerator writes a workbook with a ranked risk sheet and an area sheet
type XLSXGenerator struct{}

func NewXLSXGenerator() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(data *Data) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetRisks); err != nil {
		return nil, goerr.Wrap(err, "failed to rename sheet")
	}

	if err := g.writeRisks(f, data); err != nil {
		return nil, err
	}
	if err := g.writeAreas(f, data); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   data.Title,
		Created: data.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Creator: "gutboard",
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to set document properties")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to write workbook")
	}
	return buf.Bytes(), nil
}

func (g *XLSXGenerator) writeRisks(f *excelize.File, data *Data) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1E3A5F"}, Pattern: 1},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create header style")
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetRisks, "A1", &header); err != nil {
		return goerr.Wrap(err, "failed to write header row")
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return goerr.Wrap(err, "failed to resolve last column")
	}
	if err := f.SetCellStyle(sheetRisks, "A1", lastCol+"1", headerStyle); err != nil {
		return goerr.Wrap(err, "failed to style header row")
	}

	styles := make(map[types.RowLevel]int, len(rowFills))
	for level, color := range rowFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create row style", goerr.V("level", level))
		}
		styles[level] = id
	}

	for i, r := range data.Records {
		rowNum := i + 2
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve cell", goerr.V("row", rowNum))
		}

		row := []any{
			i + 1, r.Title, r.Area, r.Gravity, r.Urgency, r.Tendency, r.Score,
			r.RowLevel().String(), r.Priority().String(), r.Status.String(),
			r.ImmediateAction, r.CreatedAt,
		}
		if err := f.SetSheetRow(sheetRisks, cell, &row); err != nil {
			return goerr.Wrap(err, "failed to write risk row", goerr.V("risk_id", r.ID))
		}

		end, _ := excelize.CoordinatesToCellName(len(columns), rowNum)
		if err := f.SetCellStyle(sheetRisks, cell, end, styles[r.RowLevel()]); err != nil {
			return goerr.Wrap(err, "failed to style risk row", goerr.V("risk_id", r.ID))
		}
	}

	if err := f.SetColWidth(sheetRisks, "B", "B", 45); err != nil {
		return goerr.Wrap(err, "failed to set column width")
	}
	if err := f.SetColWidth(sheetRisks, "K", "K", 40); err != nil {
		return goerr.Wrap(err, "failed to set column width")
	}

	if len(data.Records) > 0 {
		ref := "A1:" + lastCol + itoa(len(data.Records)+1)
		if err := f.AutoFilter(sheetRisks, ref, nil); err != nil {
			return goerr.Wrap(err, "failed to set auto filter")
		}
	}
	return nil
}

func (g *XLSXGenerator) writeAreas(f *excelize.File, data *Data) error {
	if _, err := f.NewSheet(sheetAreas); err != nil {
		return goerr.Wrap(err, "failed to create area sheet")
	}

	header := []any{"Área", "Score acumulado", "Ocorrências"}
	if err := f.SetSheetRow(sheetAreas, "A1", &header); err != nil {
		return goerr.Wrap(err, "failed to write area header")
	}
	if data.Dashboard == nil {
		return nil
	}

	counts := make(map[string]int, len(data.Dashboard.CountByArea))
	for _, c := range data.Dashboard.CountByArea {
		counts[c.Area] = c.Total
	}

	for i, a := range data.Dashboard.ScoreByArea {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve cell")
		}
		row := []any{a.Area, a.Total, counts[a.Area]}
		if err := f.SetSheetRow(sheetAreas, cell, &row); err != nil {
			return goerr.Wrap(err, "failed to write area row", goerr.V("area", a.Area))
		}
	}

	return f.SetColWidth(sheetAreas, "A", "A", 30)
}
