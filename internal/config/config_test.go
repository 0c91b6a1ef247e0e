package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.NoError(t, cfg.Validate())
	}
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
data:
  class_attribute: num
search:
  max_k: 15
  workers: 4
  progress: false
report:
  classifier: knn
logging:
  level: debug
output:
  bundle: best.gob
`))
	require.NoError(t, err)

	assert.Equal(t, "num", cfg.Data.ClassAttribute)
	assert.Equal(t, 15, cfg.Search.MaxK)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.False(t, cfg.Search.Progress)
	assert.Equal(t, 10, cfg.Search.Folds)
	assert.Equal(t, int64(1), cfg.Search.Seed)
	assert.Equal(t, "knn", cfg.Report.Classifier)
	assert.Equal(t, 5, cfg.Report.Folds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "best.gob", cfg.Output.Bundle)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "search: [1, 2"},
		{"search folds", "search:\n  folds: 1\n"},
		{"negative max k", "search:\n  max_k: -3\n"},
		{"no workers", "search:\n  workers: 0\n"},
		{"report folds", "report:\n  folds: 0\n"},
		{"classifier", "report:\n  classifier: svm\n"},
		{"log level", "logging:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
