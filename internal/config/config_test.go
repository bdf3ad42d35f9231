package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PDF2IMAGE_BACKEND", "PDF2IMAGE_SCALE", "PDF2IMAGE_MODE", "PDF2IMAGE_FORMAT",
		"PDF2IMAGE_QUALITY", "PDF2IMAGE_OUTPUT_DIR", "PDF2IMAGE_MAX_FILE_SIZE_MB",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	out, err := cfg.OutputConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSeparate, out.Mode)
	assert.Equal(t, domain.FormatPNG, out.Format)
	assert.Equal(t, 90, out.Quality)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxFileSize())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pdf2image.yaml")
	yamlData := `
render:
  backend: pdfium
  scale: 1.5
output:
  mode: long
  format: jpg
  quality: 75
  dir: out
limits:
  max_file_size_mb: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o644))

	t.Setenv("PDF2IMAGE_QUALITY", "60")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pdfium", cfg.Render.Backend)
	assert.Equal(t, 1.5, cfg.Render.Scale)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, 60, cfg.Output.Quality)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize())

	out, err := cfg.OutputConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLong, out.Mode)
	assert.Equal(t, domain.FormatJPEG, out.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad scale env", env: map[string]string{"PDF2IMAGE_SCALE": "big"}},
		{name: "zero scale", env: map[string]string{"PDF2IMAGE_SCALE": "0"}},
		{name: "unknown backend", env: map[string]string{"PDF2IMAGE_BACKEND": "ghostscript"}},
		{name: "unknown format", env: map[string]string{"PDF2IMAGE_FORMAT": "webp"}},
		{name: "jpeg quality out of range", env: map[string]string{"PDF2IMAGE_FORMAT": "jpeg", "PDF2IMAGE_QUALITY": "101"}},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "malformed yaml", yaml: "render: [scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "bad.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}
