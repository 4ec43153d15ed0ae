package upload

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(t.TempDir(), 50*1024*1024, 10, logger.NewNop())
}

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateFile_Extensions(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"visuel.PDF", "bâche.jpg", "logo.ai", "maquette.psd", "archive.zip"} {
		assert.NoError(t, svc.ValidateFile(header(name, 1024)), name)
	}

	for _, name := range []string{"script.exe", "run.sh", "video.mp4", "noextension"} {
		err := svc.ValidateFile(header(name, 1024))
		require.Error(t, err, name)
		var uerr *Error
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "bad_extension", uerr.Code)
		assert.Equal(t, name, uerr.FileName)
	}
}

func TestValidateFile_SizeLimit(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.ValidateFile(header("ok.pdf", 50*1024*1024)))

	err := svc.ValidateFile(header("big.pdf", 50*1024*1024+1))
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "file_too_large", uerr.Code)
}

func TestValidateBatch_CountLimit(t *testing.T) {
	svc := newTestService(t)

	batch := make([]*multipart.FileHeader, 10)
	for i := range batch {
		batch[i] = header("f.pdf", 1)
	}
	assert.NoError(t, svc.ValidateBatch(batch))

	batch = append(batch, header("extra.pdf", 1))
	err := svc.ValidateBatch(batch)
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "too_many_files", uerr.Code)
}

func TestDiscard_RemovesStoredFiles(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()

	var saved []*SavedFile
	for _, name := range []string{"a.pdf", "b.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
		saved = append(saved, &SavedFile{OriginalName: name, StoredPath: path})
	}

	svc.Discard(saved)

	for _, sf := range saved {
		_, err := os.Stat(sf.StoredPath)
		assert.True(t, os.IsNotExist(err), sf.StoredPath)
	}
}
