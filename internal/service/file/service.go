package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/storage"
	"github.com/google/uuid"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// maxDocumentSize caps what Read loads into memory.
const maxDocumentSize = 20 << 20

type FileService interface {
	// SaveDocument stores a generated document and returns its relative path.
	SaveDocument(ctx context.Context, userID, kind, format string, content []byte) (string, error)

	Read(ctx context.Context, path string) ([]byte, error)
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// SaveDocument writes under documents/<user>/<yyyy-mm>/ with a unique name.
func (s *fileServiceImpl) SaveDocument(ctx context.Context, userID, kind, format string, content []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(format, "."))
	if ext != "pdf" && ext != "html" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	name := fmt.Sprintf("%s-%s.%s", kind, uuid.New().String()[:8], ext)
	p := path.Join("documents", userID, s.now().Format("2006-01"), name)

	saved, err := s.storage.Save(ctx, p, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to save document: %w", err)
	}
	return saved, nil
}

func (s *fileServiceImpl) Read(ctx context.Context, p string) ([]byte, error) {
	rc, err := s.storage.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(content) > maxDocumentSize {
		return nil, fmt.Errorf("document %s exceeds %d bytes", p, maxDocumentSize)
	}
	return content, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, p string) error {
	return s.storage.Delete(ctx, p)
}
