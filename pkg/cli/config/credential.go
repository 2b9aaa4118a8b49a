package config

import (
	"log/slog"
	"os"

	"github.com/biogas-ops/gutboard/pkg/service/gauth"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Credential holds the service account used for the token exchange
type Credential struct {
	file   string
	json   string
	scopes []string
}

func (x *Credential) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Path to a Google service account JSON file",
			Category:    "Google",
			Sources:     cli.EnvVars("GUTBOARD_GOOGLE_CREDENTIALS"),
			Destination: &x.file,
		},
		&cli.StringFlag{
			Name:        "google-credentials-json",
			Usage:       "Google service account JSON content (alternative to --google-credentials)",
			Category:    "Google",
			Sources:     cli.EnvVars("GUTBOARD_GOOGLE_CREDENTIALS_JSON"),
			Destination: &x.json,
		},
		&cli.StringSliceFlag{
			Name:        "google-scopes",
			Usage:       "OAuth scopes requested in the token exchange",
			Category:    "Google",
			Value:       []string{gauth.DefaultScope},
			Sources:     cli.EnvVars("GUTBOARD_GOOGLE_SCOPES"),
			Destination: &x.scopes,
		},
	}
}

func (x Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", x.file),
		slog.Bool("inline", x.json != ""),
		slog.Any("scopes", x.scopes),
	)
}

// IsConfigured reports whether a service account was given
func (x *Credential) IsConfigured() bool {
	return x.file != "" || x.json != ""
}

// Configure loads the service account and returns the token exchange
// client. It returns nil when no credentials are configured.
func (x *Credential) Configure() (*gauth.Client, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	var data []byte
	if x.json != "" {
		data = []byte(x.json)
	} else {
		// #nosec G304 - path is provided by CLI flag
		raw, err := os.ReadFile(x.file)
		if err != nil {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read service account file", goerr.V(ConfigPathKey, x.file), goerr.V("error", err.Error()))
		}
		data = raw
	}

	account, err := gauth.ParseServiceAccount(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid service account")
	}

	client, err := gauth.New(account, gauth.WithScopes(x.scopes...))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create token client", goerr.V("client_email", account.ClientEmail))
	}
	return client, nil
}
