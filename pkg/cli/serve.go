package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	httpctrl "github.com/biogas-ops/gutboard/pkg/controller/http"
	"github.com/biogas-ops/gutboard/pkg/service/worker"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthEmail string
	var maxUploadSize int64
	var tokenRefreshInterval time.Duration
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var credCfg config.Credential
	var storageCfg config.Storage
	var geminiCfg config.Gemini
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GUTBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip the identity header and run every request as an admin with this e-mail (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("GUTBOARD_NO_AUTH"),
			Destination: &noAuthEmail,
		},
		&cli.Int64Flag{
			Name:        "max-upload-size",
			Usage:       "Maximum attachment size in bytes",
			Value:       httpctrl.DefaultMaxUploadSize,
			Sources:     cli.EnvVars("GUTBOARD_MAX_UPLOAD_SIZE"),
			Destination: &maxUploadSize,
		},
		&cli.DurationFlag{
			Name:        "token-refresh-interval",
			Usage:       "Interval for keeping the service account token warm (0 disables)",
			Category:    "Google",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("GUTBOARD_TOKEN_REFRESH_INTERVAL"),
			Destination: &tokenRefreshInterval,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, credCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			tokens, err := credCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure service account")
			}

			if tokens != nil && tokenRefreshInterval > 0 {
				tokenWorker := worker.NewTokenRefreshWorker(tokens, tokenRefreshInterval)
				if err := tokenWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start token refresh worker")
				}
				defer tokenWorker.Stop()
			}

			fileStorage, closeStorage, err := storageCfg.Configure(ctx, tokens)
			if err != nil {
				return goerr.Wrap(err, "failed to configure file storage")
			}
			defer closeStorage()

			suggester, err := geminiCfg.ConfigureSuggestion(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure AI suggestions")
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifications")
			}

			ucOpts := []usecase.Option{
				usecase.WithAutoSuggest(geminiCfg.AutoSuggest()),
				usecase.WithNoAuth(noAuthEmail),
			}
			if appCfg.ReportTitle != "" {
				ucOpts = append(ucOpts, usecase.WithReportTitle(appCfg.ReportTitle))
			}
			if appCfg.DashboardTopN > 0 {
				ucOpts = append(ucOpts, usecase.WithDashboardTopN(appCfg.DashboardTopN))
			}
			if suggester != nil {
				ucOpts = append(ucOpts, usecase.WithSuggestionProvider(suggester))
				logger.LogAttrs(ctx, slog.LevelInfo, "AI suggestions enabled", geminiCfg.LogAttrs()...)
			} else {
				logger.Info("Gemini not configured, AI suggestions disabled")
			}
			if fileStorage != nil {
				ucOpts = append(ucOpts, usecase.WithFileStorage(fileStorage))
				logger.Info("Attachments enabled", "storage", storageCfg)
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logger.Info("Slack notifications enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			if err := uc.Area.SeedAreas(ctx, appCfg.AreaNames()); err != nil {
				return goerr.Wrap(err, "failed to seed plant areas")
			}
			if err := uc.User.SeedUsers(ctx, appCfg.SeedUsers()); err != nil {
				return goerr.Wrap(err, "failed to seed users")
			}

			if uc.IsNoAuthn() {
				logger.Warn("Running in no-auth mode (development only)", "email", noAuthEmail)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMaxUploadSize(maxUploadSize)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "config", appCfg)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown completed")
			return nil
		},
	}
}
