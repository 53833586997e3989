package uploads

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekomart/ekomart-backend/pkg/config"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

// pngHeader is a minimal valid PNG signature plus IHDR chunk prefix, enough
// for content sniffing.
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func newUploadService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(config.UploadsConfig{
		Dir:         t.TempDir(),
		BaseURL:     "/uploads/",
		MaxUploadMB: 1,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSaveStoresSniffedImage(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(config.UploadsConfig{Dir: dir, BaseURL: "/uploads", MaxUploadMB: 1})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Save(context.Background(), "My Photo.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.Type != "image/png" {
		t.Fatalf("type = %q", result.Type)
	}
	if result.Size != int64(len(pngHeader)) {
		t.Fatalf("size = %d", result.Size)
	}
	if !strings.HasSuffix(result.Filename, "_MyPhoto.png") {
		t.Fatalf("filename = %q", result.Filename)
	}
	if !strings.HasPrefix(result.URL, "/uploads/") {
		t.Fatalf("url = %q", result.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, result.Filename)); err != nil {
		t.Fatalf("stored file: %v", err)
	}
}

func TestSaveRejectsNonImage(t *testing.T) {
	svc := newUploadService(t)

	_, err := svc.Save(context.Background(), "script.png", strings.NewReader("#!/bin/sh\necho hi\n"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation (sniffed type wins over filename)", err)
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	svc := newUploadService(t)

	payload := append(append([]byte{}, pngHeader...), make([]byte, 2<<20)...)
	_, err := svc.Save(context.Background(), "big.png", bytes.NewReader(payload))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	svc := newUploadService(t)

	_, err := svc.Save(context.Background(), "empty.png", bytes.NewReader(nil))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestFilenamesNeverCollide(t *testing.T) {
	svc := newUploadService(t)

	first, err := svc.Save(context.Background(), "photo.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.Save(context.Background(), "photo.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Filename == second.Filename {
		t.Fatal("uuid prefix must make names unique")
	}
}
