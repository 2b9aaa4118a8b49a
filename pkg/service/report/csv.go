package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// CSVGenerator writes a header block, the ranked records and per-area totals
type CSVGenerator struct{}

func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

func (g *CSVGenerator) Generate(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := [][]string{
		{"# " + data.Title},
		{"# Gerado em:", data.GeneratedAt.Format(time.RFC3339)},
		{"# Registros:", itoa(len(data.Records))},
	}
	if data.FilterSummary != "" {
		header = append(header, []string{"# Filtro:", data.FilterSummary})
	}
	header = append(header, []string{""})

	for _, row := range header {
		if err := w.Write(row); err != nil {
			return nil, goerr.Wrap(err, "failed to write CSV header")
		}
	}

	if err := w.Write(columns); err != nil {
		return nil, goerr.Wrap(err, "failed to write CSV columns")
	}
	for i, r := range data.Records {
		if err := w.Write(recordRow(i+1, r)); err != nil {
			return nil, goerr.Wrap(err, "failed to write CSV record", goerr.V("risk_id", r.ID))
		}
	}

	if data.Dashboard != nil && len(data.Dashboard.ScoreByArea) > 0 {
		counts := make(map[string]int, len(data.Dashboard.CountByArea))
		for _, c := range data.Dashboard.CountByArea {
			counts[c.Area] = c.Total
		}

		rows := [][]string{{""}, {"# POR ÁREA"}, {"Área", "Score acumulado", "Ocorrências"}}
		for _, a := range data.Dashboard.ScoreByArea {
			rows = append(rows, []string{a.Area, itoa(a.Total), itoa(counts[a.Area])})
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, goerr.Wrap(err, "failed to write CSV area section")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, goerr.Wrap(err, "CSV write error")
	}
	return buf.Bytes(), nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
