package typescript

import (
	"strings"

	"github.com/broady/enumshare/ir"
)

// union collects TypeScript type expressions in first-seen order, without
// duplicates.
type union struct {
	types []string
	seen  map[string]bool
}

func (u *union) add(t string) {
	if u.seen == nil {
		u.seen = make(map[string]bool)
	}
	if u.seen[t] {
		return
	}
	u.seen[t] = true
	u.types = append(u.types, t)
}

func (u *union) String() string {
	return strings.Join(u.types, " | ")
}

func (u *union) len() int {
	return len(u.types)
}

// inferType returns the TypeScript type of a JSON domain value.
func inferType(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case []any:
		if len(x) == 0 {
			return "Record<string, unknown>"
		}
		return inferType(x[0]) + "[]"
	case ir.Object:
		if len(x) == 0 {
			return "Record<string, unknown>"
		}
		return "Record<string, any>"
	}
	return "unknown"
}

// field is one member of a synthesized object type.
type field struct {
	name     string
	typ      union
	optional bool
}

// objectShape merges the keys of a sequence of objects into one structural
// type. Keys appear in first-seen order; each key's type is the union of
// the types observed in the objects that define it. A key missing from some
// object is optional.
func objectShape(objects []ir.Object) []*field {
	var fields []*field
	byName := make(map[string]*field)
	for _, o := range objects {
		for _, f := range o {
			fd := byName[f.Key]
			if fd == nil {
				fd = &field{name: f.Key}
				byName[f.Key] = fd
				fields = append(fields, fd)
			}
			fd.typ.add(inferType(f.Value))
		}
	}
	for _, fd := range fields {
		for _, o := range objects {
			if _, ok := o.Get(fd.name); !ok {
				fd.optional = true
				break
			}
		}
	}
	return fields
}

// shape is everything synthesis needs to know about an entry's types.
type shape struct {
	// baseType is "string", "number", or "" for unbacked enums.
	baseType string

	// nullable is set when a backed enum has a case without a value.
	nullable bool

	// label is the label type: string, a locale record, or their union.
	label union

	// localized is set when any label is a locale map.
	localized bool

	meta   []*field
	extras []*field
}

const localizedLabelType = "Readonly<Record<string, string>>"

// reservedEntryFields are the fixed members of an entry record; extras
// with these names are dropped.
var reservedEntryFields = map[string]bool{
	"key":   true,
	"value": true,
	"label": true,
	"meta":  true,
}

func inferShape(e *ir.Entry) *shape {
	s := &shape{}
	switch e.Backing {
	case ir.BackingString:
		s.baseType = "string"
	case ir.BackingInt:
		s.baseType = "number"
	}
	s.nullable = e.IsNullable()

	metas := make([]ir.Object, len(e.Cases))
	extras := make([]ir.Object, len(e.Cases))
	for i, c := range e.Cases {
		if c.Label.IsLocalized() {
			s.localized = true
			s.label.add(localizedLabelType)
		} else {
			s.label.add("string")
		}
		metas[i] = c.Meta
		for _, f := range c.Extra {
			if !reservedEntryFields[f.Key] {
				extras[i] = append(extras[i], f)
			}
		}
	}
	s.meta = objectShape(metas)
	s.extras = objectShape(extras)
	return s
}

// valueType is the type of the value member of an entry.
func (s *shape) valueType() string {
	if s.baseType == "" {
		return "null"
	}
	if s.nullable {
		return s.baseType + " | null"
	}
	return s.baseType
}
