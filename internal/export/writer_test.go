package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func images() []domain.ConvertedImage {
	return []domain.ConvertedImage{
		{FileName: "doc_page_001.png", Data: []byte("one")},
		{FileName: "doc_page_002.png", Data: []byte("two")},
	}
}

func TestWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, false, nil)

	paths, err := w.WriteAll(context.Background(), images())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "doc_page_001.png"), paths[0])

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestWriter_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc_page_002.png"), []byte("old"), 0o644))

	paths, err := NewWriter(dir, false, nil).WriteAll(context.Background(), images())
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))
	assert.Len(t, paths, 1)

	_, err = NewWriter(dir, true, nil).WriteAll(context.Background(), images())
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "doc_page_002.png"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestWriter_InvalidImages(t *testing.T) {
	tests := []struct {
		name string
		img  domain.ConvertedImage
	}{
		{name: "empty name", img: domain.ConvertedImage{Data: []byte("x")}},
		{name: "path traversal", img: domain.ConvertedImage{FileName: "../x.png", Data: []byte("x")}},
		{name: "no data", img: domain.ConvertedImage{FileName: "x.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWriter(t.TempDir(), false, nil).WriteAll(context.Background(), []domain.ConvertedImage{tt.img})
			assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
		})
	}
}

func TestWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := NewWriter(t.TempDir(), false, nil).WriteAll(ctx, images())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}
