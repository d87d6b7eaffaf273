package typescript

import (
	"bytes"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/ir"
)

// Synthesize produces the TypeScript module for entry. It is a pure
// function of its inputs: identical input yields byte-identical output.
// Entries that fail ir.Entry.Validate are rejected.
func Synthesize(entry *ir.Entry, opts Options) (*Module, error) {
	if entry == nil {
		return nil, errors.New("nil entry")
	}
	if errs := entry.Validate(); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "invalid entry")
	}
	opts = opts.withDefaults()
	switch opts.Strategy {
	case StrategyInline, StrategyRuntime:
	default:
		return nil, errors.Newf("unknown strategy %q", opts.Strategy)
	}

	e := newEmitter(entry, opts)
	var buf bytes.Buffer
	e.emit(&buf)

	return &Module{
		Name:     entry.Name,
		Path:     entry.Name + ".ts",
		Content:  buf.Bytes(),
		Warnings: e.warnings,
	}, nil
}
