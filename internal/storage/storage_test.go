package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/cityinfo-api/internal/config"
)

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "a.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf"))
	b, err := os.ReadFile(filepath.Join(dir, "a.pdf"))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(b))

	// Names are never reused.
	require.Error(t, s.Save(context.Background(), "a.pdf", strings.NewReader("x"), 1, "application/pdf"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	for _, name := range []string{"", ".", "..", "../x.pdf", "a/b.pdf", `a\b.pdf`} {
		require.ErrorIs(t, s.Save(context.Background(), name, strings.NewReader("x"), 1, ""), ErrInvalidName, name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStore_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	err = s.Save(context.Background(), "p.pdf", io.MultiReader(strings.NewReader("%PDF"), failingReader{}), 10, "")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "p.pdf"))
	require.True(t, os.IsNotExist(statErr))
}

type fakeBucket struct {
	exists  bool
	made    bool
	objects map[string]string
	types   map[string]string
	err     error
}

func (f *fakeBucket) BucketExists(context.Context, string) (bool, error) { return f.exists, f.err }

func (f *fakeBucket) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	f.made = true
	return nil
}

func (f *fakeBucket) PutObject(_ context.Context, _, object string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[object] = string(b)
	f.types[object] = opts.ContentType
	return minio.UploadInfo{Key: object, Size: int64(len(b))}, nil
}

func TestMinioStore(t *testing.T) {
	fb := &fakeBucket{objects: map[string]string{}, types: map[string]string{}}
	s := &MinioStore{bucket: "docs", client: fb}

	require.NoError(t, s.EnsureBucket(context.Background()))
	require.True(t, fb.made)

	fb.made, fb.exists = false, true
	require.NoError(t, s.EnsureBucket(context.Background()))
	require.False(t, fb.made)

	fb.err = errors.New("access denied")
	require.Error(t, s.EnsureBucket(context.Background()))

	require.NoError(t, s.Save(context.Background(), "x.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	require.Equal(t, "%PDF", fb.objects["x.pdf"])
	require.Equal(t, "application/pdf", fb.types["x.pdf"])
	require.ErrorIs(t, s.Save(context.Background(), "../x.pdf", strings.NewReader(""), 0, ""), ErrInvalidName)
}

func TestNewMinioStore_StripsScheme(t *testing.T) {
	s, err := NewMinioStore("http://localhost:9000", "key", "secret", "docs", false)
	require.NoError(t, err)
	require.Equal(t, "docs", s.bucket)
	require.Equal(t, "localhost:9000", s.client.(*minio.Client).EndpointURL().Host)
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "u")
	st, err := New(context.Background(), config.FilesConfig{Driver: "local", Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &LocalStore{}, st)

	_, err = New(context.Background(), config.FilesConfig{Driver: "ftp"})
	require.Error(t, err)
}
