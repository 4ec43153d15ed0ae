package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedExtensions covers the design, image and document formats the shop
// accepts from clients.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tiff": true, ".webp": true, ".svg": true,
	".pdf": true, ".ai": true, ".eps": true, ".psd": true, ".cdr": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".zip": true, ".rar": true, ".txt": true,
}

// Error is a structured upload rejection, serialized as-is to the client.
type Error struct {
	Code     string `json:"code"` // 'too_many_files', 'file_too_large', 'bad_extension'
	Message  string `json:"message"`
	FileName string `json:"file_name,omitempty"`
}

func (e *Error) Error() string { return e.Message }

type SavedFile struct {
	OriginalName string `json:"original_name"`
	StoredPath   string `json:"stored_path"`
	Size         int64  `json:"size"`
}

type Service struct {
	dir          string
	maxFileSize  int64
	maxFileCount int
	logger       logger.ZapLogger
}

func NewService(dir string, maxFileSize int64, maxFileCount int, log logger.ZapLogger) *Service {
	return &Service{
		dir:          dir,
		maxFileSize:  maxFileSize,
		maxFileCount: maxFileCount,
		logger:       log,
	}
}

// ValidateBatch checks the request-level constraint before any file is read.
func (s *Service) ValidateBatch(files []*multipart.FileHeader) error {
	if len(files) > s.maxFileCount {
		return &Error{
			Code:    "too_many_files",
			Message: fmt.Sprintf("at most %d files per request, got %d", s.maxFileCount, len(files)),
		}
	}
	return nil
}

// ValidateFile checks one file's size and extension.
func (s *Service) ValidateFile(fh *multipart.FileHeader) error {
	if fh.Size > s.maxFileSize {
		return &Error{
			Code:     "file_too_large",
			Message:  fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, s.maxFileSize/(1024*1024)),
			FileName: fh.Filename,
		}
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return &Error{
			Code:     "bad_extension",
			Message:  fmt.Sprintf("file type %q is not accepted", ext),
			FileName: fh.Filename,
		}
	}
	return nil
}

// Save stores one validated file under a date-partitioned directory with a
// randomized name, keeping only the original extension.
func (s *Service) Save(fh *multipart.FileHeader) (*SavedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	day := time.Now().Format("2006/01/02")
	targetDir := filepath.Join(s.dir, day)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.New().String() + ext
	targetPath := filepath.Join(targetDir, name)

	dst, err := os.Create(targetPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(targetPath)
		return nil, err
	}

	s.logger.Info("file stored",
		zap.String("original", fh.Filename),
		zap.String("path", targetPath),
		zap.Int64("size", size),
	)

	return &SavedFile{
		OriginalName: fh.Filename,
		StoredPath:   targetPath,
		Size:         size,
	}, nil
}

// Discard removes files already written when a later file in the same batch
// fails, so a failed batch leaves nothing on disk.
func (s *Service) Discard(saved []*SavedFile) {
	for _, sf := range saved {
		if err := os.Remove(sf.StoredPath); err != nil {
			s.logger.Error("failed to remove partial upload",
				zap.String("path", sf.StoredPath),
				zap.Error(err),
			)
		}
	}
}
