// Package source implements providers that describe enum types to the
// registry: which candidates exist, whether they are enums, whether they are
// marked for export, and what their cases and annotations are.
package source

import (
	"context"
	"strings"

	"github.com/broady/enumshare/ir"
)

// Provider looks up enum types by qualified name.
type Provider interface {
	// Lookup returns one Result per name, in the same order.
	// The error is reserved for failures that prevent any lookup.
	Lookup(ctx context.Context, names []string) ([]Result, error)
}

// Result is the outcome of looking up one qualified name.
type Result struct {
	// Name is the qualified name that was looked up.
	Name string

	// Type is nil when no type with that name exists.
	Type *EnumType

	// Err is set when the type exists but could not be described,
	// for example because of a malformed annotation.
	Err error
}

// EnumType describes a candidate type.
type EnumType struct {
	// Name is the unqualified type name.
	Name string

	// QualifiedName is "{package path}.{Name}".
	QualifiedName string

	// IsEnum is false for types that cannot be enums, such as structs.
	IsEnum bool

	// Exported is set when the type carries the export marker.
	Exported bool

	// Backing is the kind of the case values.
	Backing ir.BackingKind

	// Cases in declaration order.
	Cases []Case
}

// Case is one enum case and its annotations.
type Case struct {
	// Key is the case identifier.
	Key string

	// Value is string, int64, or nil when the enum is unbacked.
	Value any

	// PlainLabel is set when the case has a fixed label.
	PlainLabel *PlainLabel

	// TranslatedLabel is set when the case label is a translation key.
	TranslatedLabel *TranslatedLabel

	// Meta is the declared metadata, nil when absent.
	Meta ir.Object

	// Computed are accessors evaluated during normalization. Their
	// results become extra properties of the case record.
	Computed []Computed
}

// PlainLabel is a label used verbatim.
type PlainLabel struct {
	Text string
}

// TranslatedLabel is a label resolved through the translator.
type TranslatedLabel struct {
	Key    string
	Params map[string]string
}

// Computed is a zero-argument accessor whose result is exported under Name.
type Computed struct {
	Name string
	Eval func() (any, error)
}

// SplitName splits a qualified name into package path and type name.
// It reports false when name has no package component.
func SplitName(name string) (pkgPath, typeName string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 || strings.Contains(name[i+1:], "/") {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}

// ShortName returns the type name of a qualified name.
func ShortName(name string) string {
	_, typeName, _ := SplitName(name)
	return typeName
}
