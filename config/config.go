// Package config loads enumshare.yaml (or .yml, .toml, .json, .jsonc) and
// applies defaults and environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/internal/decode"
)

// BaseName is the config file name without extension.
const BaseName = "enumshare"

// Environment variables overriding file settings.
const (
	EnvAutodiscovery = "ENUMSHARE_AUTODISCOVERY"
	EnvExportPath    = "ENUMSHARE_EXPORT_PATH"
	EnvLocale        = "ENUMSHARE_LOCALE"
)

// Config is the project configuration.
type Config struct {
	// Enums are explicitly exported qualified names.
	Enums []string `yaml:"enums" toml:"enums" json:"enums" validate:"dive,required"`

	Export        Export        `yaml:"export" toml:"export" json:"export"`
	Autodiscovery Autodiscovery `yaml:"autodiscovery" toml:"autodiscovery" json:"autodiscovery"`
	Lang          Lang          `yaml:"lang" toml:"lang" json:"lang"`
	Dev           Dev           `yaml:"dev" toml:"dev" json:"dev"`

	// File is the path the configuration was loaded from, empty when
	// only defaults apply.
	File string `yaml:"-" toml:"-" json:"-"`
}

// Export configures generated output.
type Export struct {
	Path          string   `yaml:"path" toml:"path" json:"path" validate:"required"`
	Locale        string   `yaml:"locale" toml:"locale" json:"locale" validate:"omitempty,bcp47"`
	Locales       []string `yaml:"locales" toml:"locales" json:"locales" validate:"unique,dive,bcp47"`
	AppLocale     string   `yaml:"app_locale" toml:"app_locale" json:"app_locale" validate:"required,bcp47"`
	Strategy      string   `yaml:"strategy" toml:"strategy" json:"strategy" validate:"oneof=inline runtime"`
	ExportTypes   bool     `yaml:"export_types" toml:"export_types" json:"export_types"`
	Flavor        string   `yaml:"flavor" toml:"flavor" json:"flavor" validate:"omitempty,oneof=zod zod-mini"`
	RuntimeImport string   `yaml:"runtime_import" toml:"runtime_import" json:"runtime_import" validate:"required"`
	Frontmatter   string   `yaml:"frontmatter" toml:"frontmatter" json:"frontmatter"`
}

// Autodiscovery configures candidate discovery.
type Autodiscovery struct {
	Enabled    bool     `yaml:"enabled" toml:"enabled" json:"enabled"`
	Paths      []string `yaml:"paths" toml:"paths" json:"paths" validate:"required_if=Enabled true,dive,required"`
	Namespaces []string `yaml:"namespaces" toml:"namespaces" json:"namespaces" validate:"dive,required"`
	Exclude    []string `yaml:"exclude" toml:"exclude" json:"exclude" validate:"dive,required"`
}

// Lang configures translation catalogs.
type Lang struct {
	Path      string `yaml:"path" toml:"path" json:"path" validate:"required"`
	Namespace string `yaml:"namespace" toml:"namespace" json:"namespace" validate:"required"`
}

// Dev configures the development server.
type Dev struct {
	Addr           string   `yaml:"addr" toml:"addr" json:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins" json:"allowed_origins" validate:"dive,required"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Enums: []string{},
		Export: Export{
			Path:          "web/enums",
			Locales:       []string{},
			AppLocale:     "en",
			Strategy:      "inline",
			ExportTypes:   true,
			RuntimeImport: "./EnumRuntime",
		},
		Autodiscovery: Autodiscovery{
			Enabled:    true,
			Paths:      []string{"."},
			Namespaces: []string{},
			Exclude:    []string{},
		},
		Lang: Lang{
			Path:      "lang",
			Namespace: "enums",
		},
		Dev: Dev{
			Addr:           "127.0.0.1:5177",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Find returns the first config file in dir, in decode.Extensions order,
// or "" when there is none.
func Find(dir string) string {
	for _, ext := range decode.Extensions {
		path := filepath.Join(dir, BaseName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path searches the current
// directory; finding nothing is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find(".")
	} else if !decode.Supported(path) {
		return nil, errors.WithHint(
			errors.Newf("unsupported config file %s", path),
			"use a .yaml, .yml, .toml, .json or .jsonc file")
	}

	cfg := Default()
	if path != "" {
		if err := decode.File(path, cfg); err != nil {
			return nil, err
		}
		cfg.File = path
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies the ENUMSHARE_* overrides found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAutodiscovery); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "%s", EnvAutodiscovery),
				"use true or false")
		}
		c.Autodiscovery.Enabled = enabled
	}
	if v, ok := lookup(EnvExportPath); ok && v != "" {
		c.Export.Path = v
	}
	if v, ok := lookup(EnvLocale); ok {
		c.Export.Locale = v
	}
	return nil
}
