package cli

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.String("config") == "" {
				return goerr.Wrap(config.ErrMissingFlag, "--config is required", goerr.V(config.FlagKey, "config"))
			}
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger := logging.Default()
			logger.Info("Configuration validation passed", "config", appCfg)
			for _, name := range appCfg.AreaNames() {
				logger.Info("Area validated", "name", name)
			}
			for _, user := range appCfg.SeedUsers() {
				logger.Info("User validated", "email", user.ID, "role", user.Role)
			}
			return nil
		},
	}
}
