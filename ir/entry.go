package ir

import (
	"fmt"
	"strconv"
)

// Case is one normalized enum case.
type Case struct {
	// Key is the case identifier, unique within its enum.
	Key string

	// Value is the backing value: string, int64, or nil for unbacked
	// enums (and for individual cases of a nullable backed enum).
	Value any

	// Label is the resolved label.
	Label Label

	// Meta is the metadata bag attached to the case. Never nil after
	// normalization.
	Meta Object

	// Extra holds results of computed case accessors, merged into the
	// case record next to key, value, label and meta.
	Extra Object
}

// Option is a flattened value/label pair for UI choice lists.
type Option struct {
	// Value is the case value for backed enums and the key otherwise.
	Value any

	// Label is always a single string.
	Label string
}

// Entry is the normalized description of one enum.
type Entry struct {
	// Name is the unqualified short name used as the manifest key.
	Name string

	// QualifiedName identifies the enum in its source, for example
	// "example.com/app/enums.TripStatus".
	QualifiedName string

	// Backing is the scalar kind shared by all case values.
	Backing BackingKind

	// Cases in declaration order. Never empty for a valid entry.
	Cases []Case

	// Options has one element per case, in the same order.
	Options []Option
}

// Keys returns the case keys in order.
func (e *Entry) Keys() []string {
	keys := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		keys[i] = c.Key
	}
	return keys
}

// IsNullable reports whether a backed enum has a case without a value.
func (e *Entry) IsNullable() bool {
	if !e.Backing.IsBacked() {
		return false
	}
	for _, c := range e.Cases {
		if c.Value == nil {
			return true
		}
	}
	return false
}

// IsLocalized reports whether any case carries a locale map label.
func (e *Entry) IsLocalized() bool {
	for _, c := range e.Cases {
		if c.Label.IsLocalized() {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the entry.
// Returns all validation errors found (not just the first).
func (e *Entry) Validate() []error {
	var errs []error
	add := func(code, format string, args ...any) {
		errs = append(errs, &ValidationError{Code: code, Message: e.Name + ": " + fmt.Sprintf(format, args...)})
	}

	if e.Name == "" {
		add("missing_name", "enum has no name")
	}
	if len(e.Cases) == 0 {
		add("no_cases", "enum has no cases")
	}
	switch e.Backing {
	case BackingNone, BackingString, BackingInt:
	default:
		add("invalid_backing", "unknown backing kind %q", string(e.Backing))
	}

	keys := make(map[string]bool, len(e.Cases))
	values := make(map[any]string, len(e.Cases))
	for _, c := range e.Cases {
		if c.Key == "" {
			add("empty_key", "case with empty key")
		} else if keys[c.Key] {
			add("duplicate_key", "duplicate case key %q", c.Key)
		}
		keys[c.Key] = true

		kind, ok := KindOf(c.Value)
		switch {
		case !ok:
			add("invalid_value", "case %s has value of unsupported type %T", c.Key, c.Value)
			continue
		case c.Value == nil:
			continue
		case !e.Backing.IsBacked():
			add("unexpected_value", "case %s has a value but the enum is unbacked", c.Key)
			continue
		case kind != e.Backing:
			add("mixed_backing", "case %s has %s value in %s-backed enum", c.Key, kind, e.Backing)
			continue
		}
		if prev, dup := values[c.Value]; dup {
			add("duplicate_value", "cases %s and %s share value %s", prev, c.Key, FormatValue(c.Value))
		}
		values[c.Value] = c.Key
	}

	if len(e.Options) != len(e.Cases) {
		add("options_mismatch", "%d options for %d cases", len(e.Options), len(e.Cases))
	}
	return errs
}

// FormatValue renders a case value for messages.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}
