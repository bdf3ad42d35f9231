package pdf2image

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/pdf/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withOpener(o domain.Opener) Option {
	return func(c *converterConfig) {
		c.opener = o
	}
}

func TestConvertBytes_Separate(t *testing.T) {
	var updates []Progress
	images, err := ConvertBytes(context.Background(), "report.v2.pdf", pdftest.MinimalPDF(10, 10),
		withOpener(&pdftest.Opener{Doc: pdftest.Uniform(2, 300, 400)}),
		WithScale(1),
		WithProgress(func(p Progress) { updates = append(updates, p) }),
	)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "report.v2_page_001.png", images[0].FileName)
	assert.Equal(t, 300, images[0].Width)
	assert.Equal(t, 400, images[0].Height)

	require.NotEmpty(t, updates)
	assert.Equal(t, 100.0, updates[len(updates)-1].Percent)
}

func TestConvertBytes_Long(t *testing.T) {
	images, err := ConvertBytes(context.Background(), "scan.pdf", pdftest.MinimalPDF(10, 10),
		withOpener(&pdftest.Opener{Doc: pdftest.Uniform(3, 100, 50)}),
		WithMode(ModeLong),
		WithFormat(FormatJPEG),
		WithQuality(70),
		WithScale(2),
		WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "scan_long_image.jpeg", images[0].FileName)
	assert.Equal(t, 200, images[0].Width)
	assert.Equal(t, 300, images[0].Height)
}

func TestConvertBytes_RejectsInput(t *testing.T) {
	opener := &pdftest.Opener{Doc: pdftest.Uniform(1, 10, 10)}

	_, err := ConvertBytes(context.Background(), "x.pdf", []byte("plain text"), withOpener(opener))
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))

	_, err = ConvertBytes(context.Background(), "x.pdf", pdftest.MinimalPDF(10, 10), withOpener(opener), WithMaxFileSize(16))
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))

	assert.Equal(t, 0, opener.Calls())
}

func TestConvert_FileAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.MinimalPDF(10, 10), 0o644))

	images, err := Convert(context.Background(), path, withOpener(&pdftest.Opener{Doc: pdftest.Uniform(1, 20, 20)}), WithFormat(FormatBMP))
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "in_page_001.bmp", images[0].FileName)

	paths, err := WriteFiles(context.Background(), filepath.Join(dir, "out"), images, false)
	require.NoError(t, err)
	assert.FileExists(t, paths[0])
}

func TestConvert_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.MinimalPDF(10, 10), 0o644))

	_, err := Convert(context.Background(), path, WithBackend("ghostscript"))
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}
