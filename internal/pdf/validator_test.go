package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/pdf/pdftest"
)

func TestValidator_ValidatePDFPath(t *testing.T) {
	dir := t.TempDir()

	validPDF := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(validPDF, pdftest.MinimalPDF(200, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	fakePDF := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(fakePDF, []byte("just some text"), 0o644); err != nil {
		t.Fatal(err)
	}
	textFile := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textFile, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	emptyPDF := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(emptyPDF, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid pdf", path: validPDF},
		{name: "empty path", path: "  ", wantErr: true},
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "wrong extension", path: textFile, wantErr: true},
		{name: "wrong content", path: fakePDF, wantErr: true},
		{name: "empty file", path: emptyPDF, wantErr: true},
	}

	v := NewValidator(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePDFPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePDFPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !domain.IsType(err, domain.ErrorTypeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidator_ValidateSize(t *testing.T) {
	v := NewValidator(0)
	if v.MaxSize() != DefaultMaxFileSize {
		t.Fatalf("expected default limit, got %d", v.MaxSize())
	}
	if err := v.ValidateSize(DefaultMaxFileSize); err != nil {
		t.Errorf("file at the limit should pass: %v", err)
	}
	err := v.ValidateSize(DefaultMaxFileSize + 1)
	if err == nil || !strings.Contains(err.Error(), "limit is 50 MB") {
		t.Errorf("expected size error, got %v", err)
	}

	small := NewValidator(1024)
	if err := small.ValidateSize(2048); err == nil {
		t.Error("expected custom limit to apply")
	}
}

func TestValidator_ValidateContent(t *testing.T) {
	v := NewValidator(0)
	if err := v.ValidateContent(strings.NewReader("%PDF-1.7\n")); err != nil {
		t.Errorf("short PDF header should pass: %v", err)
	}
	if err := v.ValidateContent(strings.NewReader("<html></html>")); err == nil {
		t.Error("HTML should be rejected")
	}
}
