package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyphen-docs/hyphen/internal/docset"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "style_overrides: /tmp/extra.css\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/extra.css", cfg.StyleOverrides)
	assert.Equal(t, docset.DefaultSourcePath, cfg.SourceDocset)
	assert.Equal(t, 1000, cfg.ProgressEvery)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadAllFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, `source_docset: /docsets/Apple.docset
style_overrides: extra.css
progress_every: 250
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		SourceDocset:   "/docsets/Apple.docset",
		StyleOverrides: "extra.css",
		ProgressEvery:  250,
		LogLevel:       "debug",
	}, cfg)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "progress_every: [",
		"empty source":  "source_docset: \"\"\n",
		"zero progress": "progress_every: 0\n",
		"unknown level": "log_level: loud\n",
		"wrong type":    "progress_every: often\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("HYPHEN_CONFIG_FILE", "/etc/hyphen.yaml")
	assert.Equal(t, "/etc/hyphen.yaml", DefaultPath())
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("HYPHEN_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultReadsFile(t *testing.T) {
	t.Setenv("HYPHEN_CONFIG_FILE", writeConfig(t, "progress_every: 5\n"))
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ProgressEvery)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]string{"swift", "objc", "swift"}, []string{"macos", "iOS", "macos"}, "/out")
	require.NoError(t, err)

	assert.Equal(t, []docset.Language{docset.Swift, docset.ObjC}, opts.Languages)
	assert.Equal(t, []docset.Platform{docset.MacOS, docset.IOS}, opts.Platforms)
	assert.Equal(t, "/out", opts.OutputDir)
}

func TestParseOptionsDefaultsOutputToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	opts, err := ParseOptions([]string{"swift"}, []string{"ios"}, "")
	require.NoError(t, err)
	assert.Equal(t, wd, opts.OutputDir)
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		name      string
		languages []string
		platforms []string
		want      string
	}{
		{"no language", nil, []string{"ios"}, "at least one language"},
		{"no platform", []string{"swift"}, nil, "at least one platform"},
		{"bad language", []string{"kotlin"}, []string{"ios"}, "possible values: swift, objc"},
		{"bad platform", []string{"swift"}, []string{"android"}, "possible values: ios, macos, watchos, tvos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.languages, tt.platforms, "/out")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
