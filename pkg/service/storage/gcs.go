package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

const gcsPublicHost = "storage.googleapis.com"

// GCS stores attachments in a Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

var _ interfaces.FileStorage = &GCS{}

type GCSOption func(*GCS)

// WithGCSPrefix puts every object under prefix, e.g. "attachments"
func WithGCSPrefix(prefix string) GCSOption {
	return func(g *GCS) {
		g.prefix = strings.Trim(prefix, "/")
	}
}

func NewGCS(ctx context.Context, bucket string, clientOpts []option.ClientOption, opts ...GCSOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) Upload(ctx context.Context, name, category, contentType string, r io.Reader) (*interfaces.StoredFile, error) {
	object := objectName(category, name)
	if g.prefix != "" {
		object = g.prefix + "/" + object
	}

	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"original-name": name}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, goerr.Wrap(err, "failed to write object", goerr.V("bucket", g.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", g.bucket), goerr.V("object", object))
	}

	return &interfaces.StoredFile{
		URL:  g.objectURL(object),
		Name: name,
	}, nil
}

func (g *GCS) Delete(ctx context.Context, fileURL string) error {
	object, err := g.objectFromURL(fileURL)
	if err != nil {
		return err
	}

	if err := g.client.Bucket(g.bucket).Object(object).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return goerr.Wrap(model.ErrNotFound, "object not found", goerr.V("bucket", g.bucket), goerr.V("object", object))
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("bucket", g.bucket), goerr.V("object", object))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) objectURL(object string) string {
	u := url.URL{Scheme: "https", Host: gcsPublicHost, Path: "/" + g.bucket + "/" + object}
	return u.String()
}

func (g *GCS) objectFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host != gcsPublicHost {
		return "", goerr.Wrap(ErrInvalidURL, "not a Cloud Storage URL", goerr.V("url", fileURL))
	}

	object, ok := strings.CutPrefix(u.Path, "/"+g.bucket+"/")
	if !ok || object == "" {
		return "", goerr.Wrap(ErrInvalidURL, "object is not in this bucket", goerr.V("url", fileURL), goerr.V("bucket", g.bucket))
	}
	return object, nil
}
