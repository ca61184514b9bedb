package storage

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
)

// LocalReceiptStorage implements port.ReceiptStorage on the local
// filesystem. References are uuid-named files under the base directory, so
// an uploaded artifact keeps a stable handle for the life of a claim.
type LocalReceiptStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalReceiptStorage creates a new LocalReceiptStorage.
func NewLocalReceiptStorage(baseDir string, logger *zap.Logger) port.ReceiptStorage {
	return &LocalReceiptStorage{baseDir: baseDir, logger: logger}
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// Save stores the content under a fresh uuid reference, keeping only the
// upload's extension.
func (s *LocalReceiptStorage) Save(ctx context.Context, filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported receipt type %q", ext)
	}

	ref := uuid.NewString() + ext
	fullPath, err := s.resolve(ref)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt", zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("Receipt saved",
		zap.String("ref", ref),
		zap.Int("size", len(content)))
	return ref, nil
}

// Read returns the stored artifact for the reference.
func (s *LocalReceiptStorage) Read(ctx context.Context, ref string) ([]byte, error) {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.logger.Error("Failed to read receipt", zap.String("ref", ref), zap.Error(err))
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	return content, nil
}

// Exists reports whether the reference resolves to a stored artifact.
func (s *LocalReceiptStorage) Exists(ctx context.Context, ref string) bool {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// Preview returns a PNG preview. PDF receipts are rendered to an image of
// their first page; image receipts pass through with their own type.
func (s *LocalReceiptStorage) Preview(ctx context.Context, ref string) ([]byte, string, error) {
	content, err := s.Read(ctx, ref)
	if err != nil {
		return nil, "", err
	}

	ext := strings.ToLower(filepath.Ext(ref))
	if ext != ".pdf" {
		return content, allowedExtensions[ext], nil
	}

	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		s.logger.Error("Failed to open PDF receipt", zap.String("ref", ref), zap.Error(err))
		return nil, "", fmt.Errorf("failed to open PDF receipt: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

// resolve joins the reference onto the base dir and refuses anything that
// escapes it.
func (s *LocalReceiptStorage) resolve(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) {
		return "", fmt.Errorf("invalid receipt reference %q", ref)
	}
	return filepath.Join(s.baseDir, ref), nil
}

// Verify interface compliance
var _ port.ReceiptStorage = (*LocalReceiptStorage)(nil)
