package typescript

import (
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/sink"
	"github.com/broady/enumshare/typescript/flavor"
)

// Strategy selects how the runtime object of a module is produced.
type Strategy string

const (
	// StrategyInline emits the lookup maps and accessors into every module.
	StrategyInline Strategy = "inline"

	// StrategyRuntime emits only data and calls buildEnum from the shared
	// EnumRuntime module, which is written next to the modules.
	StrategyRuntime Strategy = "runtime"
)

// Header is the first line of every generated file.
const Header = "// This file is auto-generated. Do not edit manually."

// RuntimeFile is the name of the shared runtime module.
const RuntimeFile = "EnumRuntime.ts"

// Warning codes.
const (
	WarnReservedKey   = "reserved_key"
	WarnUnsafeInteger = "unsafe_integer"
	WarnExtraShadowed = "extra_shadowed"
)

// Options configures module synthesis.
type Options struct {
	// Strategy defaults to StrategyInline.
	Strategy Strategy

	// ExportTypes adds the export modifier to the generated type
	// declarations. The types are declared either way.
	ExportTypes bool

	// RuntimeImport is the module specifier of the shared runtime used by
	// StrategyRuntime. Defaults to "./EnumRuntime".
	RuntimeImport string

	// Frontmatter is copied below the header of every module.
	Frontmatter string

	// Locale, when set, adds a "// Locale: xx" banner.
	Locale string

	// FallbackLocale is tried by labels(locale) after the requested locale.
	// Defaults to "en".
	FallbackLocale string

	// Indent is one indentation level. Defaults to two spaces.
	Indent string
}

// DefaultOptions returns the options used by the command line defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:       StrategyInline,
		ExportTypes:    true,
		RuntimeImport:  "./EnumRuntime",
		FallbackLocale: "en",
		Indent:         "  ",
	}
}

func (o Options) withDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = StrategyInline
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = "./EnumRuntime"
	}
	if o.FallbackLocale == "" {
		o.FallbackLocale = "en"
	}
	if o.Indent == "" {
		o.Indent = "  "
	}
	return o
}

// Module is one synthesized TypeScript module.
type Module struct {
	// Name is the enum short name.
	Name string

	// Path is the output path relative to the export directory.
	Path string

	// Content is the module source.
	Content []byte

	// Warnings contains non-fatal issues found while synthesizing.
	Warnings []ir.Warning
}

// GenerateOptions configures a batch generation.
type GenerateOptions struct {
	// Sink receives generated files.
	Sink sink.OutputSink

	// Options configures every module.
	Options Options

	// Flavors add companion files per enum, such as Zod schemas.
	Flavors []flavor.Flavor
}

// GenerateResult describes a batch generation.
type GenerateResult struct {
	// Files lists the files written, in manifest order.
	Files []OutputFile

	// EnumsGenerated counts enums whose module was written.
	EnumsGenerated int

	// Warnings contains non-fatal issues.
	Warnings []ir.Warning

	// Errors holds one *EnumError per enum that could not be generated.
	Errors []error
}

// OutputFile describes a generated file.
type OutputFile struct {
	Path string
	Size int64
}

// EnumError reports a failure to generate one enum.
type EnumError struct {
	Name string
	Err  error
}

func (e *EnumError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *EnumError) Unwrap() error {
	return e.Err
}
