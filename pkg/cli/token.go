package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	var credCfg config.Credential

	return &cli.Command{
		Name:  "token",
		Usage: "Exchange the service account for an access token and print its expiry",
		Flags: credCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if !credCfg.IsConfigured() {
				return goerr.Wrap(config.ErrMissingFlag, "--google-credentials or --google-credentials-json is required", goerr.V(config.FlagKey, "google-credentials"))
			}

			client, err := credCfg.Configure()
			if err != nil {
				return err
			}

			token, err := client.Current(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to obtain access token", goerr.V("client_email", client.ClientEmail()))
			}

			_, err = fmt.Fprintf(output(c), "client_email: %s\ntoken_type:   %s\nexpires_at:   %s (in %s)\n",
				client.ClientEmail(),
				token.TokenType,
				token.ExpiresAt.Format(time.RFC3339),
				time.Until(token.ExpiresAt).Round(time.Second),
			)
			return err
		},
	}
}
