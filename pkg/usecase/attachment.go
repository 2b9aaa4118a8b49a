package usecase

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/errutil"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultAttachmentCategory is used when the uploader gives none
const DefaultAttachmentCategory = "geral"

// AttachFileInput describes an uploaded file
type AttachFileInput struct {
	Name        string
	Category    string
	ContentType string
	Body        io.Reader
}

// AttachFile uploads the file and appends it to the risk. The uploaded
// object is removed again if the record cannot be updated.
func (uc *RiskUseCase) AttachFile(ctx context.Context, id model.RiskID, input AttachFileInput) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if uc.storage == nil {
		return nil, goerr.Wrap(model.ErrUnavailable, "file storage is not configured")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "file name is required", goerr.V(model.RiskIDKey, id))
	}
	if input.Body == nil {
		return nil, goerr.Wrap(model.ErrValidation, "file body is required", goerr.V(model.RiskIDKey, id))
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultAttachmentCategory
	}

	if _, err := uc.repo.Risk().Get(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	stored, err := uc.storage.Upload(ctx, input.Name, category, input.ContentType, input.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload attachment", goerr.V(model.RiskIDKey, id))
	}

	updated, err := uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		risk.Attachments = append(risk.Attachments, model.Attachment{
			URL:        stored.URL,
			Name:       stored.Name,
			Category:   category,
			UploadedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if delErr := uc.storage.Delete(ctx, stored.URL); delErr != nil {
			_ = errutil.Handle(ctx, goerr.Wrap(delErr, "failed to remove orphaned attachment", goerr.V(URLKey, stored.URL)), "attachment rollback failed")
		}
		return nil, err
	}

	logging.From(ctx).Info("attachment added",
		slog.String("risk_id", id.String()),
		slog.String("url", stored.URL),
	)
	return updated, nil
}

// DetachFile removes the attachment with the given URL from the risk
// and deletes the stored object. A failed object delete is logged only.
func (uc *RiskUseCase) DetachFile(ctx context.Context, id model.RiskID, url string) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if uc.storage == nil {
		return nil, goerr.Wrap(model.ErrUnavailable, "file storage is not configured")
	}
	if url == "" {
		return nil, goerr.Wrap(model.ErrValidation, "attachment URL is required", goerr.V(model.RiskIDKey, id))
	}

	updated, err := uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		idx := slices.IndexFunc(risk.Attachments, func(a model.Attachment) bool { return a.URL == url })
		if idx < 0 {
			return goerr.Wrap(model.ErrNotFound, "attachment not found", goerr.V(URLKey, url))
		}
		risk.Attachments = slices.Delete(risk.Attachments, idx, idx+1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.storage.Delete(ctx, url); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to delete attachment", goerr.V(model.RiskIDKey, id), goerr.V(URLKey, url)), "attachment delete failed")
	}
	return updated, nil
}
