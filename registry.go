package enumshare

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/enumshare/internal/discover"
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/normalize"
	"github.com/broady/enumshare/source"
)

// Discovery configures automatic candidate discovery.
type Discovery struct {
	// Enabled turns discovery on.
	Enabled bool

	// Paths are the directories scanned. Empty means ".".
	Paths []string

	// Namespaces keep only enums whose import path or qualified name
	// matches one of these doublestar patterns.
	Namespaces []string

	// Exclude lists doublestar patterns of directories to skip, relative
	// to each path.
	Exclude []string
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Provider describes candidates. Defaults to a source.SourceProvider
	// loading from the current directory.
	Provider source.Provider

	// Enums are explicitly configured qualified names.
	Enums []string

	Discovery Discovery
	Normalize normalize.Options
	Logger    *zap.Logger
}

// Registry turns candidate names into a manifest of validated, normalized
// entries.
type Registry struct {
	provider  source.Provider
	enums     []string
	discovery Discovery
	norm      *normalize.Normalizer
	log       *zap.Logger
}

// NewRegistry returns a registry for opts.
func NewRegistry(opts RegistryOptions) *Registry {
	r := &Registry{
		provider:  opts.Provider,
		enums:     opts.Enums,
		discovery: opts.Discovery,
		log:       opts.Logger,
	}
	if r.provider == nil {
		r.provider = &source.SourceProvider{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if opts.Normalize.Logger == nil {
		opts.Normalize.Logger = r.log
	}
	r.norm = normalize.New(opts.Normalize)
	return r
}

// Collision records an entry replaced by a later candidate with the same
// short name.
type Collision struct {
	Name     string
	Replaced string
	By       string
}

// Report is the outcome of Build.
type Report struct {
	// Manifest holds the valid entries, keyed by short name, in candidate
	// order.
	Manifest *ir.Manifest

	// Invalid lists candidates rejected by validation, in candidate order.
	Invalid []*ValidationError

	// Errors lists enums whose normalized entry is malformed.
	Errors []*GenerationError

	// Collisions lists short names claimed by more than one enum. The
	// last candidate wins.
	Collisions []Collision
}

// Discover scans the discovery paths. It fails with a ConfigurationError
// when discovery is disabled.
func (r *Registry) Discover(ctx context.Context) ([]string, error) {
	if !r.discovery.Enabled {
		return nil, configurationError("Auto-discovery is disabled.",
			"set autodiscovery.enabled: true in enumshare.yaml or ENUMSHARE_AUTODISCOVERY=true")
	}
	s := &discover.Scanner{
		Roots:      r.discovery.Paths,
		Namespaces: r.discovery.Namespaces,
		Exclude:    r.discovery.Exclude,
		Logger:     r.log,
	}
	return s.Discover(ctx)
}

// Candidates returns the configured enums followed by discovered ones,
// without duplicates. With discovery disabled and nothing configured it
// returns a ConfigurationError.
func (r *Registry) Candidates(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.enums))
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	add(r.enums)
	if !r.discovery.Enabled && len(names) == 0 {
		return nil, configurationError("No enums configured.",
			"list enums in enumshare.yaml or enable auto-discovery")
	}
	if r.discovery.Enabled {
		found, err := r.Discover(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "discover enums")
		}
		add(found)
	}
	r.log.Debug("candidates", zap.Int("configured", len(r.enums)), zap.Int("total", len(names)))
	return names, nil
}

// Build validates and normalizes every candidate for requestedLocale. The
// returned error is reserved for failures that prevent looking up any
// candidate; per-enum problems are recorded in the report.
func (r *Registry) Build(ctx context.Context, requestedLocale string) (*Report, error) {
	names, err := r.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	return r.build(ctx, names, requestedLocale)
}

// Manifest is Build without the diagnostics.
func (r *Registry) Manifest(ctx context.Context, requestedLocale string) (*ir.Manifest, error) {
	report, err := r.Build(ctx, requestedLocale)
	if err != nil {
		return nil, err
	}
	return report.Manifest, nil
}

func (r *Registry) build(ctx context.Context, names []string, requestedLocale string) (*Report, error) {
	report := &Report{Manifest: ir.NewManifest()}
	if len(names) == 0 {
		return report, nil
	}

	results, err := r.provider.Lookup(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "look up enums")
	}
	if len(results) != len(names) {
		return nil, errors.Newf("provider returned %d results for %d names", len(results), len(names))
	}

	for _, res := range results {
		if verr := validate(res); verr != nil {
			r.log.Warn("skipping enum", zap.String("enum", res.Name), zap.String("reason", verr.Reason))
			report.Invalid = append(report.Invalid, verr)
			continue
		}

		entry := r.norm.Normalize(res.Type, requestedLocale)
		if errs := entry.Validate(); len(errs) > 0 {
			gerr := &GenerationError{Name: entry.Name, Err: errors.Join(errs...)}
			r.log.Error("invalid enum", zap.String("enum", entry.QualifiedName), zap.Error(gerr.Err))
			report.Errors = append(report.Errors, gerr)
			continue
		}

		if prev := report.Manifest.Set(entry); prev != nil {
			c := Collision{Name: entry.Name, Replaced: prev.QualifiedName, By: entry.QualifiedName}
			r.log.Warn("enum name collision",
				zap.String("enum", c.Name),
				zap.String("replaced", c.Replaced),
				zap.String("by", c.By))
			report.Collisions = append(report.Collisions, c)
		}
	}
	return report, nil
}

// validate checks one lookup result, first failure wins.
func validate(res source.Result) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Name: res.Name, Reason: fmt.Sprintf(format, args...)}
	}
	t := res.Type
	switch {
	case res.Err != nil:
		return fail("%s", res.Err.Error())
	case t == nil:
		return fail("Enum type '%s' does not exist.", res.Name)
	case !t.IsEnum:
		return fail("Type '%s' is not an enum.", res.Name)
	case !t.Exported:
		return fail("Enum '%s' must be marked for export (//enumshare:export or a FrontendEnum method).", res.Name)
	case len(t.Cases) == 0:
		return fail("Enum '%s' has no cases to export.", res.Name)
	}
	return nil
}
