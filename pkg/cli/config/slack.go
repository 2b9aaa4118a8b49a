package config

import (
	"log/slog"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds settings of the critical risk notifier
type Slack struct {
	botToken     string
	channel      string
	dashboardURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (chat:write, channels:read)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("GUTBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel for critical risk alerts (ID or #name)",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("GUTBOARD_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "dashboard-url",
			Usage:       "Public URL of the dashboard, used for links in alerts",
			Category:    "Slack",
			Destination: &x.dashboardURL,
			Sources:     cli.EnvVars("GUTBOARD_DASHBOARD_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
		slog.String("dashboard-url", x.dashboardURL),
	)
}

// IsConfigured reports whether alerts are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channel != ""
}

// Configure returns the notifier, or nil when Slack is not configured.
// A token without a channel (or the reverse) is an error.
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" {
		return nil, goerr.Wrap(ErrMissingFlag, "slack-bot-token is required with slack-channel", goerr.V(FlagKey, "slack-bot-token"))
	}
	if x.channel == "" {
		return nil, goerr.Wrap(ErrMissingFlag, "slack-channel is required with slack-bot-token", goerr.V(FlagKey, "slack-channel"))
	}

	notifier, err := slack.New(x.botToken, x.channel, slack.WithDashboardURL(x.dashboardURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return notifier, nil
}
