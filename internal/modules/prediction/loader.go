// README: Loads the model artifact from a local path or s3://bucket/key.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const s3Scheme = "s3://"

var ErrObjectStoreDisabled = errors.New("object storage not configured")

// ObjectFetcher reads objects from S3-compatible storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type Loader struct {
	objects ObjectFetcher
}

// NewLoader returns a Loader. objects may be nil; s3:// paths then fail.
func NewLoader(objects ObjectFetcher) *Loader {
	return &Loader{objects: objects}
}

// Load opens path and parses the artifact. Any failure here is a startup failure.
func (l *Loader) Load(ctx context.Context, path string) (*Artifact, error) {
	rc, err := l.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer rc.Close()

	a, err := ParseArtifact(rc)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return a, nil
}

func (l *Loader) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, s3Scheme) {
		return os.Open(path)
	}
	if l.objects == nil {
		return nil, ErrObjectStoreDisabled
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(path, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("malformed object path %q", path)
	}
	return l.objects.Fetch(ctx, bucket, key)
}
