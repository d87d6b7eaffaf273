// Package lookup mirrors the generated TypeScript enum object in Go. The
// dev server uses it to answer label and value queries, and tests use it
// to check the behavior generated modules must have.
package lookup

import (
	"github.com/broady/enumshare/ir"
)

// DefaultFallbackLocale is tried after the requested locale.
const DefaultFallbackLocale = "en"

// Enum is an immutable, map-backed view of one entry.
type Enum struct {
	entry    *ir.Entry
	fallback string
	byKey    map[string]int
	byValue  map[any]int
	keys     []string
	values   []any
}

// Option configures Build.
type Option func(*Enum)

// WithFallbackLocale sets the locale Labels tries after the requested one.
func WithFallbackLocale(locale string) Option {
	return func(e *Enum) {
		if locale != "" {
			e.fallback = locale
		}
	}
}

// Build indexes entry. The entry must not be modified afterwards.
func Build(entry *ir.Entry, opts ...Option) *Enum {
	e := &Enum{
		entry:    entry,
		fallback: DefaultFallbackLocale,
		byKey:    make(map[string]int, len(entry.Cases)),
		byValue:  make(map[any]int, len(entry.Cases)),
		keys:     make([]string, len(entry.Cases)),
	}
	for _, opt := range opts {
		opt(e)
	}
	for i, c := range entry.Cases {
		e.byKey[c.Key] = i
		e.keys[i] = c.Key
		if !entry.Backing.IsBacked() {
			e.values = append(e.values, c.Key)
			continue
		}
		if c.Value != nil {
			e.byValue[c.Value] = i
			e.values = append(e.values, c.Value)
		}
	}
	return e
}

// Name returns the enum short name.
func (e *Enum) Name() string {
	return e.entry.Name
}

// Entry returns the underlying entry.
func (e *Enum) Entry() *ir.Entry {
	return e.entry
}

// From returns the case with the given value. Unbacked enums look up by
// key. Integer kinds and whole float64 values match integer-backed cases;
// nil never matches.
func (e *Enum) From(value any) (ir.Case, bool) {
	if value == nil {
		return ir.Case{}, false
	}
	if !e.entry.Backing.IsBacked() {
		key, ok := value.(string)
		if !ok {
			return ir.Case{}, false
		}
		return e.FromKey(key)
	}
	v, ok := normalize(value)
	if !ok {
		return ir.Case{}, false
	}
	i, ok := e.byValue[v]
	if !ok {
		return ir.Case{}, false
	}
	return e.entry.Cases[i], true
}

// FromKey returns the case with the given key.
func (e *Enum) FromKey(key string) (ir.Case, bool) {
	i, ok := e.byKey[key]
	if !ok {
		return ir.Case{}, false
	}
	return e.entry.Cases[i], true
}

// IsValid reports whether From finds a case for value.
func (e *Enum) IsValid(value any) bool {
	_, ok := e.From(value)
	return ok
}

// HasKey reports whether a case has the given key.
func (e *Enum) HasKey(key string) bool {
	_, ok := e.byKey[key]
	return ok
}

// Keys returns the case keys in order.
func (e *Enum) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Values returns the case values in order, skipping null values. For
// unbacked enums the values are the keys.
func (e *Enum) Values() []any {
	return append([]any(nil), e.values...)
}

// Options returns the option list.
func (e *Enum) Options() []ir.Option {
	return append([]ir.Option(nil), e.entry.Options...)
}

// Entries returns the cases in order.
func (e *Enum) Entries() []ir.Case {
	return append([]ir.Case(nil), e.entry.Cases...)
}

// Count returns the number of cases.
func (e *Enum) Count() int {
	return len(e.entry.Cases)
}

// Labels resolves every case label for locale.
func (e *Enum) Labels(locale string) []string {
	labels := make([]string, len(e.entry.Cases))
	for i, c := range e.entry.Cases {
		labels[i] = ResolveLabel(c.Label, locale, e.fallback)
	}
	return labels
}

// ResolveLabel returns the text of label for locale. Localized labels fall
// back to fallback, then to their first translation, then to "".
func ResolveLabel(label ir.Label, locale, fallback string) string {
	if !label.IsLocalized() {
		return label.Text
	}
	if locale != "" {
		if text, ok := label.Lookup(locale); ok {
			return text
		}
	}
	if text, ok := label.Lookup(fallback); ok {
		return text
	}
	text, _ := label.First()
	return text
}

// normalize converts value to the representation stored in case values.
func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return nil, false
		}
		return int64(v), true
	}
	n, err := ir.NormalizeValue(value)
	if err != nil {
		return nil, false
	}
	switch n.(type) {
	case int64, string:
		return n, true
	}
	return nil, false
}
