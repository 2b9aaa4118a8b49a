package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive stores attachments in a shared Google Drive folder. It is
// normally authenticated with the gauth token source.
type Drive struct {
	service  *drive.Service
	folderID string
}

var _ interfaces.FileStorage = &Drive{}

func NewDrive(ctx context.Context, folderID string, clientOpts ...option.ClientOption) (*Drive, error) {
	if folderID == "" {
		return nil, goerr.New("Drive folder ID is required")
	}

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Drive service", goerr.V("folder_id", folderID))
	}

	return &Drive{service: svc, folderID: folderID}, nil
}

func (d *Drive) Upload(ctx context.Context, name, category, contentType string, r io.Reader) (*interfaces.StoredFile, error) {
	file := &drive.File{
		Name:        sanitizeName(name),
		Description: category,
		MimeType:    contentType,
		Parents:     []string{d.folderID},
	}

	created, err := d.service.Files.Create(file).
		Media(r, googleapi.ContentType(contentType)).
		Fields("id", "name", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload file to Drive", goerr.V("name", name), goerr.V("folder_id", d.folderID))
	}

	link := created.WebViewLink
	if link == "" {
		link = driveFileURL(created.Id)
	}

	return &interfaces.StoredFile{URL: link, Name: name}, nil
}

func (d *Drive) Delete(ctx context.Context, fileURL string) error {
	id, err := driveFileID(fileURL)
	if err != nil {
		return err
	}

	if err := d.service.Files.Delete(id).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return goerr.Wrap(model.ErrNotFound, "Drive file not found", goerr.V("file_id", id))
		}
		return goerr.Wrap(err, "failed to delete Drive file", goerr.V("file_id", id))
	}
	return nil
}

func driveFileURL(id string) string {
	return "https://drive.google.com/file/d/" + id + "/view"
}

// driveFileID accepts both https://drive.google.com/file/d/{id}/view and
// ...?id={id} links.
func driveFileID(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil || !strings.HasSuffix(u.Host, "drive.google.com") {
		return "", goerr.Wrap(ErrInvalidURL, "not a Drive URL", goerr.V("url", fileURL))
	}

	if id := u.Query().Get("id"); id != "" {
		return id, nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "d" && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", goerr.Wrap(ErrInvalidURL, "no file ID in Drive URL", goerr.V("url", fileURL))
}
