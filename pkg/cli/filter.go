package cli

import (
	"io"
	"os"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// riskFilterFlags holds the filter shared by rank and export
type riskFilterFlags struct {
	area     string
	statuses []string
	minScore int64
}

func (x *riskFilterFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "area",
			Usage:       "Only risks of this plant area",
			Category:    "Filter",
			Destination: &x.area,
		},
		&cli.StringSliceFlag{
			Name:        "status",
			Usage:       "Only risks in these statuses (OPEN, IN_PROGRESS, MITIGATED, RESOLVED)",
			Category:    "Filter",
			Destination: &x.statuses,
		},
		&cli.Int64Flag{
			Name:        "min-score",
			Usage:       "Only risks with at least this score",
			Category:    "Filter",
			Destination: &x.minScore,
		},
	}
}

func (x *riskFilterFlags) Filter() (model.RiskFilter, error) {
	filter := model.RiskFilter{
		Area:     strings.TrimSpace(x.area),
		MinScore: int(x.minScore),
	}
	if x.minScore < 0 {
		return filter, goerr.Wrap(model.ErrValidation, "min-score must not be negative", goerr.V("min_score", x.minScore))
	}
	for _, s := range x.statuses {
		status, err := types.ParseRiskStatus(strings.ToUpper(strings.TrimSpace(s)))
		if err != nil {
			return filter, goerr.Wrap(model.ErrValidation, "invalid status filter", goerr.V("status", s))
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}

func output(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
