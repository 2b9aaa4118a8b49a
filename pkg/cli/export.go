package cli

import (
	"context"
	"os"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var format string
	var outPath string
	var filterFlags riskFilterFlags
	var appCfg config.AppConfig
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Report format (csv, xlsx, pdf)",
			Value:       string(types.ReportFormatCSV),
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (default: generated file name in the current directory)",
			Destination: &outPath,
		},
	}
	flags = append(flags, filterFlags.Flags()...)
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export the ranked risk list as CSV, XLSX or PDF",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			reportFormat, err := types.ParseReportFormat(strings.ToLower(format))
			if err != nil {
				return goerr.Wrap(err, "invalid report format", goerr.V("format", format))
			}
			filter, err := filterFlags.Filter()
			if err != nil {
				return err
			}
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var ucOpts []usecase.Option
			if appCfg.ReportTitle != "" {
				ucOpts = append(ucOpts, usecase.WithReportTitle(appCfg.ReportTitle))
			}
			uc := usecase.New(repo, ucOpts...)

			report, err := uc.Report.ExportRisks(ctx, reportFormat, filter)
			if err != nil {
				return goerr.Wrap(err, "failed to export risks")
			}

			if outPath == "" {
				outPath = report.Filename
			}
			if err := os.WriteFile(outPath, report.Body, 0o600); err != nil {
				return goerr.Wrap(err, "failed to write report", goerr.V("path", outPath))
			}

			logging.Default().Info("Report written", "path", outPath, "format", reportFormat, "bytes", len(report.Body))
			return nil
		},
	}
}
