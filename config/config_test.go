package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Empty(t, cfg.OCR.TableEndpoint)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.Equal(t, 50.0, cfg.Extraction.MinTextQuality)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finratio.yaml")
	yaml := `
server:
  port: "9000"
storage:
  driver: badger
  path: /tmp/finratio
ocr:
  table_endpoint: http://localhost:11434/api/generate
thresholds:
  current_ratio:
    direction: higher
    fallback: Weak
    tiers:
      - bound: 3
        label: Strong
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.OCR.TableEndpoint)

	rule, ok := cfg.Thresholds["current_ratio"]
	require.True(t, ok)
	assert.Equal(t, dto.HigherIsBetter, rule.Direction)
	require.Len(t, rule.Tiers, 1)
	assert.Equal(t, 3.0, rule.Tiers[0].Bound)
	assert.Equal(t, "Strong", rule.Tiers[0].Label)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")
	t.Setenv("FINRATIO_EXTRACTION_WORKERS", "8")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataPrefix)
	assert.Equal(t, 8, cfg.Extraction.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FINRATIO_STORAGE_DRIVER", "postgres")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
