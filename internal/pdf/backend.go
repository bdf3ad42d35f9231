package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/spherical/pdf2image/internal/domain"
)

const (
	BackendFitz   = "fitz"
	BackendPDFium = "pdfium"
)

// NewOpener returns the opener for a backend name and a closer releasing its runtime
func NewOpener(backend string) (domain.Opener, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFitz, "mupdf", "":
		opener := NewFitzOpener()
		return opener, opener, nil
	case BackendPDFium:
		opener, err := NewPDFiumOpener()
		if err != nil {
			return nil, nil, domain.ConfigError("PDFium backend unavailable", err)
		}
		return opener, opener, nil
	default:
		return nil, nil, domain.ConfigError(fmt.Sprintf("unknown render backend %q (want fitz or pdfium)", backend), nil)
	}
}
