package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/config"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

// allowedTypes is the image allowlist; anything else is rejected regardless
// of the claimed filename or Content-Type header.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Result describes a stored upload.
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// Service stores uploaded images on local disk.
type Service interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*Result, error)
	MaxBytes() int64
}

type service struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewService prepares the uploads directory and returns the service.
func NewService(cfg config.UploadsConfig) (Service, error) {
	if cfg.Dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploads dir is required")
	}
	if cfg.MaxUploadMB < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max upload size must be positive")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create uploads dir")
	}
	return &service{
		dir:      cfg.Dir,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes: int64(cfg.MaxUploadMB) << 20,
	}, nil
}

func (s *service) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs the payload's real type, enforces the size cap and writes the
// file under a uuid-prefixed name so uploads can never collide or overwrite.
func (s *service) Save(ctx context.Context, originalName string, r io.Reader) (*Result, error) {
	payload, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload")
	}
	if int64(len(payload)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}

	detected := mimetype.Detect(payload)
	ext, ok := allowedTypes[detected.String()]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only jpeg, png, gif and webp images are allowed")
	}

	filename := uuid.NewString() + "_" + sanitizeName(originalName, ext)
	if err := os.WriteFile(filepath.Join(s.dir, filename), payload, 0o644); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	return &Result{
		Filename: filename,
		URL:      s.baseURL + "/" + filename,
		Size:     int64(len(payload)),
		Type:     detected.String(),
	}, nil
}

// sanitizeName keeps a recognizable basename but strips path separators and
// anything that could break a URL, then forces the sniffed extension.
func sanitizeName(name, ext string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		cleaned = "upload"
	}
	if len(cleaned) > 80 {
		cleaned = cleaned[:80]
	}
	return cleaned + ext
}
