package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAutodiscovery, EnvExportPath, EnvLocale} {
		t.Setenv(k, "")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "web/enums", cfg.Export.Path)
	assert.Equal(t, "en", cfg.Export.AppLocale)
	assert.Equal(t, "inline", cfg.Export.Strategy)
	assert.True(t, cfg.Export.ExportTypes)
	assert.True(t, cfg.Autodiscovery.Enabled)
	assert.Equal(t, []string{"."}, cfg.Autodiscovery.Paths)
	assert.Equal(t, "lang", cfg.Lang.Path)
	assert.Equal(t, "127.0.0.1:5177", cfg.Dev.Addr)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "enumshare.yaml",
			content: `enums:
  - example.com/app/enums.TripStatus
export:
  path: frontend/enums
  locales: [en, fr]
  strategy: runtime
  export_types: false
autodiscovery:
  enabled: false
`,
		},
		{
			name: "toml",
			file: "enumshare.toml",
			content: `enums = ["example.com/app/enums.TripStatus"]

[export]
path = "frontend/enums"
locales = ["en", "fr"]
strategy = "runtime"
export_types = false

[autodiscovery]
enabled = false
`,
		},
		{
			name: "jsonc",
			file: "enumshare.jsonc",
			content: `{
  // explicit list
  "enums": ["example.com/app/enums.TripStatus"],
  "export": {"path": "frontend/enums", "locales": ["en", "fr"], "strategy": "runtime", "export_types": false},
  "autodiscovery": {"enabled": false}
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, path, cfg.File)
			assert.Equal(t, []string{"example.com/app/enums.TripStatus"}, cfg.Enums)
			assert.Equal(t, "frontend/enums", cfg.Export.Path)
			assert.Equal(t, []string{"en", "fr"}, cfg.Export.Locales)
			assert.Equal(t, "runtime", cfg.Export.Strategy)
			assert.False(t, cfg.Export.ExportTypes)
			assert.False(t, cfg.Autodiscovery.Enabled)

			// Untouched keys keep their defaults.
			assert.Equal(t, "en", cfg.Export.AppLocale)
			assert.Equal(t, "./EnumRuntime", cfg.Export.RuntimeImport)
			assert.Equal(t, "enums", cfg.Lang.Namespace)
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	writeFile(t, dir, "enumshare.json", "{}")
	assert.Equal(t, filepath.Join(dir, "enumshare.json"), Find(dir))

	writeFile(t, dir, "enumshare.yml", "{}")
	assert.Equal(t, filepath.Join(dir, "enumshare.yml"), Find(dir))
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "enumshare.ini", ""))
	assert.ErrorContains(t, err, "unsupported config file")
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read ")

	_, err = Load(writeFile(t, dir, "bad.yaml", "export: [\n"))
	assert.ErrorContains(t, err, "parse ")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAutodiscovery, "false")
	t.Setenv(EnvExportPath, "out/enums")
	t.Setenv(EnvLocale, "fr")

	path := writeFile(t, t.TempDir(), "enumshare.yaml", "export:\n  path: web/enums\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Autodiscovery.Enabled)
	assert.Equal(t, "out/enums", cfg.Export.Path)
	assert.Equal(t, "fr", cfg.Export.Locale)

	t.Setenv(EnvAutodiscovery, "maybe")
	_, err = Load(path)
	assert.ErrorContains(t, err, EnvAutodiscovery)
}

func TestApplyEnv_Lookup(t *testing.T) {
	cfg := Default()
	env := map[string]string{EnvAutodiscovery: "0"}
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.False(t, cfg.Autodiscovery.Enabled)
	assert.Equal(t, "web/enums", cfg.Export.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad locale", func(c *Config) { c.Export.Locale = "not a locale" }, `export.locale: "not a locale" is not a valid locale code`},
		{"bad locales entry", func(c *Config) { c.Export.Locales = []string{"en", "??"} }, `export.locales[1]: "??" is not a valid locale code`},
		{"duplicate locales", func(c *Config) { c.Export.Locales = []string{"en", "en"} }, "export.locales: must not contain duplicates"},
		{"empty app locale", func(c *Config) { c.Export.AppLocale = "" }, "export.app_locale: required"},
		{"strategy", func(c *Config) { c.Export.Strategy = "proxy" }, "export.strategy: must be one of: inline runtime"},
		{"flavor", func(c *Config) { c.Export.Flavor = "yup" }, "export.flavor: must be one of: zod zod-mini"},
		{"empty path", func(c *Config) { c.Export.Path = "" }, "export.path: required"},
		{"discovery paths", func(c *Config) { c.Autodiscovery.Paths = nil }, "autodiscovery.paths: required when Enabled is true"},
		{"empty enum", func(c *Config) { c.Enums = []string{""} }, "enums[0]: required"},
		{"dev addr", func(c *Config) { c.Dev.Addr = "localhost" }, "dev.addr: must be host:port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("multiple errors", func(t *testing.T) {
		cfg := Default()
		cfg.Export.Strategy = ""
		cfg.Lang.Namespace = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "export.strategy")
		assert.Contains(t, err.Error(), "lang.namespace: required")
	})

	t.Run("discovery paths optional when disabled", func(t *testing.T) {
		cfg := Default()
		cfg.Autodiscovery.Enabled = false
		cfg.Autodiscovery.Paths = nil
		assert.NoError(t, cfg.Validate())
	})
}

func TestFormatValidationErrors_Plain(t *testing.T) {
	assert.Equal(t, "boom", FormatValidationErrors(errors.New("boom")))
}
