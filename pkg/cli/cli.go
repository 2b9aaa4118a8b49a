package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// EnvFileVar names the dotenv file loaded before flags are parsed
const EnvFileVar = "GUTBOARD_ENV_FILE"

func Run(ctx context.Context, args []string, version string) error {
	if err := loadEnvFile(); err != nil {
		logging.Default().Error("failed to load env file", "error", err)
		return err
	}

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "gutboard",
		Usage:   "GUT risk matrix for biogas plant operations",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Info("Starting gutboard", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdMigrate(),
			cmdValidate(),
			cmdExport(),
			cmdRank(),
			cmdToken(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// loadEnvFile reads .env (or $GUTBOARD_ENV_FILE) without overriding
// variables already set. A missing default file is not an error.
func loadEnvFile() error {
	path, explicit := os.LookupEnv(EnvFileVar)
	if !explicit || path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}
