package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/filterfallback/internal/config"
	"bennypowers.dev/filterfallback/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	opts := cfg.Options()
	assert.True(t, opts.VectorOutput)
	assert.True(t, opts.VendorPrefix)
	assert.False(t, opts.LegacyOutput)
	assert.True(t, opts.SkipIfDuplicated)
	assert.Equal(t, fallback.StrictWarn, opts.Strict)
	assert.Equal(t, []string{"**/*.css"}, cfg.Files)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, path, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "filter-fallback.yaml"), `
legacy: true
webkit: false
strict: true
files:
  - src/**/*.css
  - src/**/*.html
`)

	cfg, path, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "filter-fallback.yaml"), path)
	assert.True(t, cfg.Legacy)
	assert.False(t, cfg.Webkit)
	assert.True(t, cfg.SVG, "unset fields keep defaults")
	assert.True(t, cfg.SkipIfDuplicated)
	assert.Equal(t, fallback.StrictFail, cfg.Strict)
	assert.Equal(t, []string{"src/**/*.css", "src/**/*.html"}, cfg.Files)
}

func TestLoadJSONWithComments(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ".config", "filter-fallback.json"), `{
  // keep rules that already have fallbacks
  "skipIfDuplicated": false,
  "strict": false,
  "encodeDataURI": true,
}`)

	cfg, path, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".config", "filter-fallback.json"), path)
	assert.False(t, cfg.SkipIfDuplicated)
	assert.True(t, cfg.EncodeDataURI)
	assert.Equal(t, fallback.StrictIgnore, cfg.Strict)
}

func TestDotConfigWins(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "filter-fallback.yaml"), "legacy: false\n")
	write(t, filepath.Join(root, ".config", "filter-fallback.yml"), "legacy: true\n")

	cfg, path, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".config", "filter-fallback.yml"), path)
	assert.True(t, cfg.Legacy)
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"filter-fallback.yaml": "legacy: [1, 2\n",
		"filter-fallback.json": `{"strict": "sometimes"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			write(t, filepath.Join(root, name), content)

			_, _, err := config.Load(root)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestFromJSONEmpty(t *testing.T) {
	cfg, err := config.FromJSON([]byte("  "), "settings")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestWithJSON(t *testing.T) {
	base := config.Default()
	base.Legacy = true
	base.Files = []string{"src/**/*.css"}

	cfg, err := base.WithJSON([]byte(`{"svg": false, "strict": true}`), "settings")
	require.NoError(t, err)
	assert.True(t, cfg.Legacy, "fields absent from the data keep the base value")
	assert.False(t, cfg.SVG)
	assert.Equal(t, fallback.StrictFail, cfg.Strict)
	assert.Equal(t, []string{"src/**/*.css"}, cfg.Files)

	cfg, err = base.WithJSON([]byte(`{"files": ["*.html"]}`), "settings")
	require.NoError(t, err)
	assert.Equal(t, []string{"*.html"}, cfg.Files)
	assert.Equal(t, []string{"src/**/*.css"}, base.Files, "the base is not modified")

	cfg, err = base.WithJSON([]byte(`{"svg": "yes"}`), "settings")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, base, cfg)
}
