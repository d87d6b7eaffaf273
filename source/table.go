package source

import (
	"context"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/ir"
)

// Table is a Provider backed by explicit registrations. Programs that
// generate enums from Go values (for example a go:generate command) use it
// to attach labels, metadata and computed properties that source analysis
// cannot see.
//
// A Table is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	types map[string]*EnumType
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{types: make(map[string]*EnumType)}
}

// CaseOption configures a case created by NewCase.
type CaseOption func(*Case)

// Label sets a fixed label.
func Label(text string) CaseOption {
	return func(c *Case) {
		c.PlainLabel = &PlainLabel{Text: text}
		c.TranslatedLabel = nil
	}
}

// Translated sets a label resolved through the translator.
func Translated(key string, params map[string]string) CaseOption {
	return func(c *Case) {
		c.TranslatedLabel = &TranslatedLabel{Key: key, Params: params}
		c.PlainLabel = nil
	}
}

// Meta sets the case metadata.
func Meta(meta ir.Object) CaseOption {
	return func(c *Case) {
		c.Meta = meta
	}
}

// WithComputed adds a computed property evaluated at normalization time.
func WithComputed(name string, fn func() (any, error)) CaseOption {
	return func(c *Case) {
		c.Computed = append(c.Computed, Computed{Name: name, Eval: fn})
	}
}

// NewCase describes one case. value is a string kind, an integer kind, or
// nil for unbacked enums; it is converted when the case is registered.
func NewCase(key string, value any, opts ...CaseOption) Case {
	c := Case{Key: key, Value: value}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RegisterOption configures a registration.
type RegisterOption func(*registration)

type registration struct {
	methods  []exportMethod
	unmarked bool
}

type exportMethod struct {
	method   string
	property string
}

// ExportMethod exports the result of the zero-argument method named method,
// called on each case value, under property. An empty property uses the
// method name. Methods returning (T, error) omit the property on error.
func ExportMethod(method, property string) RegisterOption {
	return func(r *registration) {
		if property == "" {
			property = method
		}
		r.methods = append(r.methods, exportMethod{method: method, property: property})
	}
}

// Unmarked registers the enum without the export marker. Validation then
// rejects it; this mirrors a type that exists but was not opted in.
func Unmarked() RegisterOption {
	return func(r *registration) {
		r.unmarked = true
	}
}

// Register adds an enum under its qualified name, replacing any previous
// registration. All case values must share one backing kind (or all be
// nil) and keys must be unique.
func (t *Table) Register(qualifiedName string, cases []Case, opts ...RegisterOption) error {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	et := &EnumType{
		Name:          ShortName(qualifiedName),
		QualifiedName: qualifiedName,
		IsEnum:        true,
		Exported:      !reg.unmarked,
	}

	cases = append([]Case(nil), cases...)
	keys := make(map[string]bool, len(cases))
	for i, c := range cases {
		if c.Key == "" {
			return errors.Newf("%s: case %d has no key", qualifiedName, i)
		}
		if keys[c.Key] {
			return errors.Newf("%s: duplicate case key %q", qualifiedName, c.Key)
		}
		keys[c.Key] = true

		receiver := c.Value
		value, err := backingValue(c.Value)
		if err != nil {
			return errors.Wrapf(err, "%s: case %s", qualifiedName, c.Key)
		}
		kind, _ := ir.KindOf(value)
		if i == 0 {
			et.Backing = kind
		} else if kind != et.Backing {
			return errors.Newf("%s: case %s is %s-backed, want %s", qualifiedName, c.Key, kind, et.Backing)
		}
		c.Value = value

		if c.Meta != nil {
			meta, err := ir.NormalizeValue(c.Meta)
			if err != nil {
				return errors.Wrapf(err, "%s: case %s meta", qualifiedName, c.Key)
			}
			c.Meta = meta.(ir.Object)
		}
		c.Computed = append(append([]Computed(nil), c.Computed...), methodAccessors(receiver, reg.methods)...)
		cases[i] = c
	}
	et.Cases = cases

	t.mu.Lock()
	defer t.mu.Unlock()
	t.types[et.QualifiedName] = et
	return nil
}

// MustRegister is like Register but panics on error.
func (t *Table) MustRegister(qualifiedName string, cases []Case, opts ...RegisterOption) *Table {
	if err := t.Register(qualifiedName, cases, opts...); err != nil {
		panic(err)
	}
	return t
}

// RegisterType records a type that exists but is not an enum, such as a
// struct, so that validation can report it as such.
func (t *Table) RegisterType(qualifiedName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.types[qualifiedName] = &EnumType{
		Name:          ShortName(qualifiedName),
		QualifiedName: qualifiedName,
	}
}

// Names returns the registered qualified names in no particular order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}
	return names
}

// Lookup implements Provider.
func (t *Table) Lookup(ctx context.Context, names []string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	results := make([]Result, len(names))
	for i, name := range names {
		results[i] = Result{Name: name, Type: t.types[name]}
	}
	return results, nil
}

// backingValue converts a case value to string, int64 or nil.
func backingValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.NormalizeValue(v)
	}
	return nil, errors.Newf("unsupported case value of type %T", v)
}

var errorType = reflect.TypeFor[error]()

// methodAccessors binds each export method to receiver. Methods that do
// not exist or take parameters are skipped.
func methodAccessors(receiver any, methods []exportMethod) []Computed {
	if receiver == nil || len(methods) == 0 {
		return nil
	}
	rv := reflect.ValueOf(receiver)
	var out []Computed
	for _, m := range methods {
		fn := rv.MethodByName(m.method)
		if !fn.IsValid() {
			continue
		}
		ft := fn.Type()
		if ft.NumIn() != 0 {
			continue
		}
		switch {
		case ft.NumOut() == 1:
		case ft.NumOut() == 2 && ft.Out(1) == errorType:
		default:
			continue
		}
		out = append(out, Computed{
			Name: m.property,
			Eval: func() (any, error) {
				res := fn.Call(nil)
				if len(res) == 2 && !res[1].IsNil() {
					return nil, res[1].Interface().(error)
				}
				return res[0].Interface(), nil
			},
		})
	}
	return out
}
