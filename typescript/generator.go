package typescript

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/typescript/flavor"
)

// Generator writes one module per manifest entry.
type Generator struct {
	// Logger receives per-file debug output. Nil disables logging.
	Logger *zap.Logger
}

// slot is the outcome for one manifest entry.
type slot struct {
	files    []OutputFile
	warnings []ir.Warning
	err      error
}

// Generate synthesizes and writes every entry of m. Enums are processed in
// parallel; results are reported in manifest order. A failure in one enum
// is recorded in GenerateResult.Errors and does not stop the others. The
// returned error is reserved for cancellation and for failing to write the
// shared runtime.
func (g *Generator) Generate(ctx context.Context, m *ir.Manifest, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Sink == nil {
		return nil, errors.New("no output sink")
	}
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}
	options := opts.Options.withDefaults()

	entries := m.Entries()
	slots := make([]slot, len(entries))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = g.generateOne(ctx, entry, options, opts)
			if s := &slots[i]; s.err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &GenerateResult{}
	for i, s := range slots {
		result.Warnings = append(result.Warnings, s.warnings...)
		if s.err != nil {
			log.Error("enum generation failed", zap.String("enum", entries[i].Name), zap.Error(s.err))
			result.Errors = append(result.Errors, &EnumError{Name: entries[i].Name, Err: s.err})
			continue
		}
		result.EnumsGenerated++
		result.Files = append(result.Files, s.files...)
		for _, f := range s.files {
			log.Debug("wrote file", zap.String("path", f.Path), zap.Int64("size", f.Size))
		}
	}

	if options.Strategy == StrategyRuntime && result.EnumsGenerated > 0 {
		if err := opts.Sink.WriteFile(ctx, RuntimeFile, runtimeSource); err != nil {
			return result, errors.Wrap(err, "write runtime")
		}
		result.Files = append(result.Files, OutputFile{Path: RuntimeFile, Size: int64(len(runtimeSource))})
		log.Debug("wrote file", zap.String("path", RuntimeFile), zap.Int("size", len(runtimeSource)))
	}
	return result, nil
}

func (g *Generator) generateOne(ctx context.Context, entry *ir.Entry, options Options, opts GenerateOptions) slot {
	var s slot
	mod, err := Synthesize(entry, options)
	if err != nil {
		s.err = err
		return s
	}
	s.warnings = mod.Warnings

	files := []OutputFile{{Path: mod.Path, Size: int64(len(mod.Content))}}
	contents := [][]byte{mod.Content}
	for _, f := range opts.Flavors {
		fctx := &flavor.EmitContext{
			Indent:      options.Indent,
			Header:      Header,
			TypePrefix:  sanitizeIdentifier(entry.Name),
			ExportTypes: options.ExportTypes,
		}
		content, err := flavor.Generate(f, fctx, entry)
		if err != nil {
			s.err = errors.Wrapf(err, "flavor %s", f.Name())
			return s
		}
		for _, w := range fctx.Warnings {
			s.warnings = append(s.warnings, ir.Warning{Code: "flavor", Message: w, Enum: entry.Name})
		}
		files = append(files, OutputFile{Path: entry.Name + f.FileExtension(), Size: int64(len(content))})
		contents = append(contents, content)
	}

	for i, f := range files {
		if err := opts.Sink.WriteFile(ctx, f.Path, contents[i]); err != nil {
			s.err = errors.Wrapf(err, "write %s", f.Path)
			return s
		}
	}
	s.files = files
	return s
}
