package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var rowColors = map[types.RowLevel]*color.Color{
	types.RowLevelLow:      color.New(color.FgGreen),
	types.RowLevelMedium:   color.New(color.FgYellow),
	types.RowLevelCritical: color.New(color.FgRed, color.Bold),
}

func cmdRank() *cli.Command {
	var noColor bool
	var byArea bool
	var filterFlags riskFilterFlags
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable coloured output",
			Destination: &noColor,
		},
		&cli.BoolFlag{
			Name:        "by-area",
			Usage:       "Print score totals per plant area after the ranking",
			Destination: &byArea,
		},
	}
	flags = append(flags, filterFlags.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "rank",
		Aliases: []string{"r"},
		Usage:   "Print the risk ranking in the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if noColor {
				color.NoColor = true
			}
			filter, err := filterFlags.Filter()
			if err != nil {
				return err
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

			risks, err := usecase.New(repo).Risk.ListRisks(ctx, filter)
			if err != nil {
				return goerr.Wrap(err, "failed to list risks")
			}

			w := output(c)
			if err := printRanking(w, risks); err != nil {
				return err
			}
			if byArea {
				return printAreaTotals(w, risks)
			}
			return nil
		},
	}
}

// printRanking writes one line per risk, coloured by row level.
// risks must already be ranked.
func printRanking(w io.Writer, risks []*model.RiskRecord) error {
	if len(risks) == 0 {
		_, err := fmt.Fprintln(w, "No risks found")
		return err
	}

	header := fmt.Sprintf("%4s  %5s  %-5s  %-11s  %-20s  %-20s  %s", "#", "SCORE", "G U T", "STATUS", "PRIORITY", "AREA", "TITLE")
	if _, err := color.New(color.Bold).Fprintln(w, header); err != nil {
		return goerr.Wrap(err, "failed to write ranking")
	}

	for i, r := range risks {
		line := fmt.Sprintf("%4d  %5d  %d %d %d  %-11s  %-20s  %-20s  %s",
			i+1, r.Score, r.Gravity, r.Urgency, r.Tendency,
			r.Status, model.ClassifyPriority(r.Score), r.Area, r.Title)
		if _, err := rowColors[model.ClassifyRow(r.Score)].Fprintln(w, line); err != nil {
			return goerr.Wrap(err, "failed to write ranking")
		}
	}
	return nil
}

func printAreaTotals(w io.Writer, risks []*model.RiskRecord) error {
	counts := model.AggregateCountByArea(risks)
	if _, err := fmt.Fprintln(w); err != nil {
		return goerr.Wrap(err, "failed to write area totals")
	}
	for _, t := range model.SortedAreaTotals(model.AggregateScoreByArea(risks)) {
		if _, err := fmt.Fprintf(w, "%-20s  %6d  (%d)\n", t.Area, t.Total, counts[t.Area]); err != nil {
			return goerr.Wrap(err, "failed to write area totals")
		}
	}
	return nil
}
