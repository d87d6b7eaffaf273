// Package cli holds what the enumshare commands share: global flags, the
// loaded configuration, the logger, and report printing.
package cli

import (
	"context"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/broady/enumshare"
	"github.com/broady/enumshare/config"
	"github.com/broady/enumshare/i18n"
	"github.com/broady/enumshare/internal/logging"
	"github.com/broady/enumshare/source"
	"github.com/broady/enumshare/typescript"
)

// Globals are flags accepted by every command.
type Globals struct {
	Config    string `help:"Config file (default: enumshare.{yaml,yml,toml,json,jsonc} in the working directory)." short:"c" type:"path"`
	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"warn" name:"log-level"`
	LogFormat string `help:"Log format." enum:"console,json" default:"console" name:"log-format"`
	NoColor   bool   `help:"Disable colored output." name:"no-color" env:"NO_COLOR"`
}

// Env is passed to every command's Run method. It is safe for concurrent
// use; copies made by WithContext share the loaded configuration.
type Env struct {
	Ctx     context.Context
	Globals *Globals
	Log     *zap.Logger

	state *state
}

type state struct {
	mu  sync.Mutex
	cfg *config.Config
}

// NewEnv builds the logger and output settings from g.
func NewEnv(ctx context.Context, g *Globals) (*Env, error) {
	if g.NoColor {
		pterm.DisableColor()
	}
	if g.LogLevel == "debug" {
		pterm.EnableDebugMessages()
	}
	log, err := logging.New(logging.Options{
		Level:   g.LogLevel,
		Format:  g.LogFormat,
		Output:  os.Stderr,
		NoColor: g.NoColor,
	})
	if err != nil {
		return nil, err
	}
	return &Env{Ctx: ctx, Globals: g, Log: log, state: &state{}}, nil
}

// WithContext returns a copy of e using ctx.
func (e *Env) WithContext(ctx context.Context) *Env {
	c := *e
	c.Ctx = ctx
	return &c
}

// Config loads the configuration on first use.
func (e *Env) Config() (*config.Config, error) {
	e.state.mu.Lock()
	defer e.state.mu.Unlock()
	if e.state.cfg != nil {
		return e.state.cfg, nil
	}
	return e.load()
}

// Reload reads the configuration again. On failure the previous
// configuration stays in effect.
func (e *Env) Reload() (*config.Config, error) {
	e.state.mu.Lock()
	defer e.state.mu.Unlock()
	return e.load()
}

func (e *Env) load() (*config.Config, error) {
	cfg, err := config.Load(e.Globals.Config)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		e.Log.Debug("loaded config", zap.String("file", cfg.File))
	}
	e.state.cfg = cfg
	return cfg, nil
}

// Generator returns a generator configured from cfg, reading Go source from
// the working directory and translations from the lang path. The caller
// sets the destination.
func (e *Env) Generator(cfg *config.Config) (*enumshare.Generator, error) {
	catalog, err := i18n.LoadCatalog(cfg.Lang.Path)
	if err != nil {
		return nil, errors.Wrap(err, "load translations")
	}
	catalog.SetFallback(cfg.Export.AppLocale)
	return NewGenerator(cfg, &source.SourceProvider{}, catalog).Logger(e.Log), nil
}

// NewGenerator applies cfg to a generator over provider.
func NewGenerator(cfg *config.Config, provider source.Provider, tr i18n.Translator) *enumshare.Generator {
	g := enumshare.New(provider).
		Enums(cfg.Enums...).
		Translator(tr).
		Namespace(cfg.Lang.Namespace).
		AppLocale(cfg.Export.AppLocale).
		Locale(cfg.Export.Locale).
		Strategy(typescript.Strategy(cfg.Export.Strategy)).
		RuntimeImport(cfg.Export.RuntimeImport).
		Frontmatter(cfg.Export.Frontmatter)
	if len(cfg.Export.Locales) > 0 {
		g.Locales(cfg.Export.Locales...)
	}
	if !cfg.Export.ExportTypes {
		g.WithoutTypes()
	}
	if cfg.Export.Flavor != "" {
		g.WithFlavor(cfg.Export.Flavor)
	}
	if cfg.Autodiscovery.Enabled {
		g.WithDiscovery(cfg.Autodiscovery.Paths...).
			Namespaces(cfg.Autodiscovery.Namespaces...).
			Exclude(cfg.Autodiscovery.Exclude...)
	}
	return g
}
