package prediction

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string]string
	bucket  string
	key     string
}

func (f *fakeObjects) Fetch(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	f.bucket, f.key = bucket, key
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.joblib")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_LocalFile(t *testing.T) {
	path := writeModel(t, linearJSON)

	a, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, KindLinear, a.Kind)
	assert.Equal(t, 3, a.NFeatures)
}

func TestLoader_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "model.joblib")

	_, err := NewLoader(nil).Load(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestLoader_CorruptFile(t *testing.T) {
	path := writeModel(t, "definitely not a model")

	_, err := NewLoader(nil).Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoader_ObjectStore(t *testing.T) {
	objects := &fakeObjects{objects: map[string]string{"models/fare/v3.json": linearJSON}}

	a, err := NewLoader(objects).Load(context.Background(), "s3://models/fare/v3.json")
	require.NoError(t, err)
	assert.Equal(t, "models", objects.bucket)
	assert.Equal(t, "fare/v3.json", objects.key)
	assert.Equal(t, KindLinear, a.Kind)
}

func TestLoader_ObjectStoreErrors(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "s3://models/fare.json")
	assert.ErrorIs(t, err, ErrObjectStoreDisabled)

	objects := &fakeObjects{objects: map[string]string{}}
	_, err = NewLoader(objects).Load(context.Background(), "s3://models")
	assert.Error(t, err)

	_, err = NewLoader(objects).Load(context.Background(), "s3://models/missing.json")
	assert.Error(t, err)
}
