package pdf

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/pdf2image/internal/domain"
)

// DefaultMaxFileSize is the largest input accepted by default (50MB)
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// Validator checks input files before they reach the converter
type Validator struct {
	maxSize int64
}

// NewValidator creates a validator; maxSize <= 0 selects DefaultMaxFileSize
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Validator{maxSize: maxSize}
}

// MaxSize returns the size limit in bytes
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// ValidatePDFPath validates that a file path is valid and points to a PDF
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	if err := v.ValidateSize(info.Size()); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	defer file.Close()

	return v.ValidateContent(file)
}

// ValidateSize rejects files larger than the configured limit
func (v *Validator) ValidateSize(size int64) error {
	if size <= 0 {
		return domain.ValidationError("file is empty", nil)
	}
	if size > v.maxSize {
		return domain.ValidationError(fmt.Sprintf("file is %.2f MB, limit is %d MB",
			float64(size)/(1024*1024), v.maxSize/(1024*1024)), nil)
	}
	return nil
}

// ValidateContent sniffs the first bytes and requires an application/pdf content type
func (v *Validator) ValidateContent(r io.Reader) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return domain.ValidationError("cannot read file header", err)
	}

	if contentType := http.DetectContentType(head[:n]); contentType != "application/pdf" {
		return domain.ValidationError(fmt.Sprintf("file content is %s, not application/pdf", contentType), nil)
	}
	return nil
}
