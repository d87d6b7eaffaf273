// Package flavor provides alternative TypeScript outputs generated next to
// each enum module, such as Zod schemas.
package flavor

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/ir"
)

// Flavor generates a companion file for one enum.
type Flavor interface {
	// Name returns the flavor identifier (e.g., "zod", "zod-mini").
	Name() string

	// FileExtension returns the output file suffix (e.g., ".zod.ts").
	FileExtension() string

	// EmitPreamble generates file-level preamble (imports, utilities).
	EmitPreamble(ctx *EmitContext) []byte

	// EmitEnum generates flavor-specific code for one enum.
	EmitEnum(ctx *EmitContext, entry *ir.Entry) ([]byte, error)
}

// EmitContext provides shared context for flavor emission.
type EmitContext struct {
	Indent string
	Header string

	// TypePrefix is the identifier the enum module's types are named after.
	TypePrefix string

	// ExportTypes reports whether the enum module exports its types.
	ExportTypes bool

	// Warnings collects non-fatal issues during generation.
	Warnings []string
}

// AddWarning adds a warning message to the context.
func (ctx *EmitContext) AddWarning(format string, args ...any) {
	ctx.Warnings = append(ctx.Warnings, fmt.Sprintf(format, args...))
}

// Names lists the known flavors.
var Names = []string{"zod", "zod-mini"}

// Get returns a flavor by name, or an error if unknown.
func Get(name string) (Flavor, error) {
	switch name {
	case "zod":
		return &ZodFlavor{mini: false}, nil
	case "zod-mini":
		return &ZodFlavor{mini: true}, nil
	default:
		return nil, errors.Newf("unknown flavor: %q", name)
	}
}

// Generate runs a flavor against one enum and returns the file content.
func Generate(f Flavor, ctx *EmitContext, entry *ir.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if ctx.Header != "" {
		buf.WriteString(ctx.Header)
		buf.WriteString("\n\n")
	}
	buf.Write(f.EmitPreamble(ctx))

	content, err := f.EmitEnum(ctx, entry)
	if err != nil {
		return nil, errors.Wrapf(err, "emit %s", entry.Name)
	}
	buf.Write(content)
	return buf.Bytes(), nil
}
