package config

import (
	"context"
	"log/slog"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/service/gauth"
	"github.com/biogas-ops/gutboard/pkg/service/storage"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage selects the attachment backend
type Storage struct {
	backend       string
	gcsBucket     string
	gcsPrefix     string
	driveFolderID string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Attachment storage (none, memory, gcs, drive)",
			Category:    "Storage",
			Value:       "none",
			Sources:     cli.EnvVars("GUTBOARD_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("GUTBOARD_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("GUTBOARD_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "drive-folder-id",
			Usage:       "Google Drive folder ID for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("GUTBOARD_DRIVE_FOLDER_ID"),
			Destination: &x.driveFolderID,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("gcs_bucket", x.gcsBucket),
		slog.String("drive_folder_id", x.driveFolderID),
	)
}

// Configure returns the attachment storage, or nil for backend "none".
// tokens authenticates Google APIs; GCS falls back to application
// default credentials when it is nil, Drive requires it.
func (x *Storage) Configure(ctx context.Context, tokens *gauth.Client) (interfaces.FileStorage, func(), error) {
	noop := func() {}

	var clientOpts []option.ClientOption
	if tokens != nil {
		clientOpts = append(clientOpts, option.WithTokenSource(tokens))
	}

	switch x.backend {
	case "", "none":
		return nil, noop, nil

	case "memory":
		logging.Default().Warn("Using in-memory attachment storage (development mode)")
		return storage.NewMemory(), noop, nil

	case "gcs":
		if x.gcsBucket == "" {
			return nil, nil, goerr.Wrap(ErrMissingFlag, "gcs-bucket is required for gcs storage", goerr.V(FlagKey, "gcs-bucket"))
		}
		gcs, err := storage.NewGCS(ctx, x.gcsBucket, clientOpts, storage.WithGCSPrefix(x.gcsPrefix))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create GCS storage")
		}
		closer := func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Error("failed to close GCS client", "error", err.Error())
			}
		}
		return gcs, closer, nil

	case "drive":
		if x.driveFolderID == "" {
			return nil, nil, goerr.Wrap(ErrMissingFlag, "drive-folder-id is required for drive storage", goerr.V(FlagKey, "drive-folder-id"))
		}
		if tokens == nil {
			return nil, nil, goerr.Wrap(ErrMissingFlag, "drive storage requires a service account", goerr.V(FlagKey, "google-credentials"))
		}
		drive, err := storage.NewDrive(ctx, x.driveFolderID, clientOpts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Drive storage")
		}
		return drive, noop, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidBackend, "invalid storage backend", goerr.V(BackendKey, x.backend))
	}
}
