package enumshare

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/enumshare/i18n"
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/normalize"
	"github.com/broady/enumshare/sink"
	"github.com/broady/enumshare/source"
	"github.com/broady/enumshare/typescript"
	"github.com/broady/enumshare/typescript/flavor"
)

// Generator provides a fluent API for exporting enums as TypeScript
// modules. Create one with New and configure it with method chaining.
//
// Example (a go:generate program):
//
//	tbl := source.NewTable()
//	tbl.MustRegister("example.com/app.Status", cases)
//	res, err := enumshare.New(tbl).
//	    Enums("example.com/app.Status").
//	    WithFlavor("zod").
//	    ToDir("./web/enums").
//	    Generate(ctx)
type Generator struct {
	provider  source.Provider
	enums     []string
	discovery Discovery
	norm      normalize.Options
	locale    string
	ts        typescript.Options
	flavors   []flavor.Flavor
	sink      sink.OutputSink
	log       *zap.Logger
	err       error
}

// New returns a Generator using provider. A nil provider loads Go source
// from the current directory.
func New(provider source.Provider) *Generator {
	return &Generator{
		provider: provider,
		ts:       typescript.DefaultOptions(),
	}
}

// Enums adds explicitly exported qualified names.
func (g *Generator) Enums(names ...string) *Generator {
	g.enums = append(g.enums, names...)
	return g
}

// WithDiscovery enables discovery over paths ("." when none are given).
func (g *Generator) WithDiscovery(paths ...string) *Generator {
	g.discovery.Enabled = true
	g.discovery.Paths = append(g.discovery.Paths, paths...)
	return g
}

// Namespaces restricts discovery to matching import paths or names.
func (g *Generator) Namespaces(patterns ...string) *Generator {
	g.discovery.Namespaces = append(g.discovery.Namespaces, patterns...)
	return g
}

// Exclude skips matching directories during discovery.
func (g *Generator) Exclude(patterns ...string) *Generator {
	g.discovery.Exclude = append(g.discovery.Exclude, patterns...)
	return g
}

// Locale sets the requested locale labels resolve against. Empty means
// the app locale.
func (g *Generator) Locale(locale string) *Generator {
	if locale == "" {
		g.locale = ""
		return g
	}
	if err := i18n.ValidateLocale(locale); err != nil {
		g.fail(err)
	}
	g.locale = locale
	return g
}

// Locales makes translated labels resolve to locale maps with one entry
// per locale. GenerateAllLocales uses the same list.
func (g *Generator) Locales(locales ...string) *Generator {
	for _, l := range locales {
		if err := i18n.ValidateLocale(l); err != nil {
			g.fail(err)
		}
	}
	g.norm.Locales = append(g.norm.Locales, locales...)
	return g
}

// AppLocale sets the current application locale. It is the fallback for
// option labels. labels(locale) in generated modules always falls back to
// English.
func (g *Generator) AppLocale(locale string) *Generator {
	if locale == "" {
		return g
	}
	if err := i18n.ValidateLocale(locale); err != nil {
		g.fail(err)
	}
	g.norm.AppLocale = locale
	return g
}

// Translator sets the translation backend.
func (g *Generator) Translator(tr i18n.Translator) *Generator {
	g.norm.Translator = tr
	return g
}

// Namespace sets the prefix of default label keys.
func (g *Generator) Namespace(ns string) *Generator {
	g.norm.Namespace = ns
	return g
}

// Strategy selects inline or shared-runtime modules.
func (g *Generator) Strategy(s typescript.Strategy) *Generator {
	switch s {
	case typescript.StrategyInline, typescript.StrategyRuntime:
	default:
		g.fail(errors.Newf("unknown strategy %q", s))
	}
	g.ts.Strategy = s
	return g
}

// WithoutTypes declares the module types without exporting them.
func (g *Generator) WithoutTypes() *Generator {
	g.ts.ExportTypes = false
	return g
}

// WithFlavor adds a companion output such as "zod" or "zod-mini".
func (g *Generator) WithFlavor(name string) *Generator {
	f, err := flavor.Get(name)
	if err != nil {
		g.fail(err)
		return g
	}
	g.flavors = append(g.flavors, f)
	return g
}

// RuntimeImport sets the module specifier of the shared runtime.
func (g *Generator) RuntimeImport(spec string) *Generator {
	g.ts.RuntimeImport = spec
	return g
}

// Frontmatter adds content below the header of every module.
func (g *Generator) Frontmatter(content string) *Generator {
	g.ts.Frontmatter = content
	return g
}

// Logger sets the logger. The default discards everything.
func (g *Generator) Logger(log *zap.Logger) *Generator {
	g.log = log
	return g
}

// ToDir writes generated files below dir.
func (g *Generator) ToDir(dir string) *Generator {
	g.sink = sink.NewFilesystemSink(dir)
	return g
}

// ToSink writes generated files to s.
func (g *Generator) ToSink(s sink.OutputSink) *Generator {
	g.sink = s
	return g
}

func (g *Generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// Result describes one export run.
type Result struct {
	// Locale is the requested locale, empty for the default.
	Locale string

	// Report holds the manifest and validation diagnostics.
	Report *Report

	// Files lists the files written, in manifest order.
	Files []typescript.OutputFile

	// EnumsGenerated counts enums whose module was written.
	EnumsGenerated int

	// Warnings contains non-fatal synthesis issues.
	Warnings []ir.Warning

	// Errors lists enums that could not be generated, including those
	// rejected after normalization.
	Errors []*GenerationError
}

// Registry returns the registry the generator builds manifests with.
func (g *Generator) Registry() *Registry {
	return g.registry(g.norm)
}

func (g *Generator) registry(norm normalize.Options) *Registry {
	log := g.log
	if log == nil {
		log = zap.NewNop()
	}
	return NewRegistry(RegistryOptions{
		Provider:  g.provider,
		Enums:     g.enums,
		Discovery: g.discovery,
		Normalize: norm,
		Logger:    log,
	})
}

func (g *Generator) check() error {
	if g.err != nil {
		return errors.WithHint(g.err, "fix the generator configuration")
	}
	if g.sink == nil {
		return configurationError("No output destination.", "call ToDir or ToSink before Generate")
	}
	return nil
}

// Generate builds the manifest for the configured locale and writes one
// module per enum.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	return g.run(ctx, g.registry(g.norm), g.locale, g.sink, g.ts)
}

// GenerateAllLocales writes one subdirectory per locale, each holding
// modules whose labels are resolved for that locale and marked with a
// locale banner. Locales default to those passed to Locales.
func (g *Generator) GenerateAllLocales(ctx context.Context, locales ...string) ([]*Result, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	if len(locales) == 0 {
		locales = g.norm.Locales
	}
	if len(locales) == 0 {
		return nil, configurationError("No locales configured.", "set export.locales in enumshare.yaml")
	}

	// Each directory holds plain labels for its own locale.
	norm := g.norm
	norm.Locales = nil
	reg := g.registry(norm)

	results := make([]*Result, 0, len(locales))
	for _, locale := range locales {
		if err := i18n.ValidateLocale(locale); err != nil {
			return results, configurationError(err.Error(), "use BCP 47 locale codes such as en or pt-BR")
		}
		opts := g.ts
		opts.Locale = locale
		res, err := g.run(ctx, reg, locale, &sink.PrefixSink{Sink: g.sink, Prefix: locale}, opts)
		if err != nil {
			return results, errors.Wrapf(err, "locale %s", locale)
		}
		results = append(results, res)
	}
	return results, nil
}

func (g *Generator) run(ctx context.Context, reg *Registry, locale string, out sink.OutputSink, opts typescript.Options) (*Result, error) {
	report, err := reg.Build(ctx, locale)
	if err != nil {
		return nil, err
	}

	gen := &typescript.Generator{Logger: reg.log}
	gres, err := gen.Generate(ctx, report.Manifest, typescript.GenerateOptions{
		Sink:    out,
		Options: opts,
		Flavors: g.flavors,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate modules")
	}

	res := &Result{
		Locale:         locale,
		Report:         report,
		Files:          gres.Files,
		EnumsGenerated: gres.EnumsGenerated,
		Warnings:       gres.Warnings,
		Errors:         append([]*GenerationError(nil), report.Errors...),
	}
	for _, err := range gres.Errors {
		var enumErr *typescript.EnumError
		if errors.As(err, &enumErr) {
			res.Errors = append(res.Errors, &GenerationError{Name: enumErr.Name, Err: enumErr.Err})
			continue
		}
		res.Errors = append(res.Errors, &GenerationError{Err: err})
	}
	if res.EnumsGenerated == 0 {
		reg.log.Warn("no enums exported")
	}
	return res, nil
}
