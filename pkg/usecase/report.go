package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/service/report"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type ReportUseCase struct {
	repo  interfaces.Repository
	title string
	now   func() time.Time
}

// ExportedReport is a rendered report file
type ExportedReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportRisks renders the records matching filter in the given format
func (uc *ReportUseCase) ExportRisks(ctx context.Context, format types.ReportFormat, filter model.RiskFilter) (*ExportedReport, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}

	if _, err := types.ParseReportFormat(string(format)); err != nil {
		return nil, goerr.Wrap(model.ErrValidation, "invalid report format", goerr.V("format", format))
	}
	gen, err := report.New(format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create report generator")
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	generatedAt := uc.now()
	data := report.NewData(uc.title, describeFilter(filter), filter.Apply(risks), generatedAt)

	body, err := gen.Generate(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate report", goerr.V("format", format))
	}

	logging.From(ctx).Info("report exported",
		slog.String("format", string(format)),
		slog.Int("records", len(data.Records)),
		slog.Int("bytes", len(body)),
	)

	return &ExportedReport{
		Filename:    fmt.Sprintf("riscos-gut-%s.%s", generatedAt.Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func describeFilter(f model.RiskFilter) string {
	var parts []string
	if f.Area != "" {
		parts = append(parts, "área="+f.Area)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = s.String()
		}
		parts = append(parts, "status="+strings.Join(statuses, ","))
	}
	if f.MinScore > 0 {
		parts = append(parts, fmt.Sprintf("score>=%d", f.MinScore))
	}
	return strings.Join(parts, " ")
}
