// Package normalize turns provider descriptions of enum types into the
// canonical ir.Entry form: labels resolved, metadata defaulted, computed
// properties evaluated and options flattened.
package normalize

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/enumshare/i18n"
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/source"
)

// DefaultNamespace prefixes default label translation keys.
const DefaultNamespace = "enums"

// DefaultAppLocale is used when no locale is requested or configured.
const DefaultAppLocale = "en"

// Options configures a Normalizer.
type Options struct {
	// Translator resolves translated and default labels. Nil never finds
	// a translation.
	Translator i18n.Translator

	// Namespace prefixes default label keys. Defaults to "enums".
	Namespace string

	// Locales, when set, makes translated labels resolve to locale maps
	// with one entry per locale, in this order.
	Locales []string

	// AppLocale is the current application locale. Defaults to "en".
	AppLocale string

	// Logger receives debug output about omitted computed properties.
	Logger *zap.Logger
}

// Normalizer converts source enum types to ir entries. It holds no
// per-call state and is safe for concurrent use.
type Normalizer struct {
	opts Options
	tr   i18n.Translator
	log  *zap.Logger
}

// New returns a Normalizer with defaults applied to opts.
func New(opts Options) *Normalizer {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.AppLocale == "" {
		opts.AppLocale = DefaultAppLocale
	}
	n := &Normalizer{opts: opts, tr: opts.Translator, log: opts.Logger}
	if n.tr == nil {
		n.tr = i18n.Nop
	}
	if n.log == nil {
		n.log = zap.NewNop()
	}
	return n
}

// Options returns the options in effect, defaults applied.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize builds the entry for t. It never fails: a computed property
// that errors or panics is left out of its case.
func (n *Normalizer) Normalize(t *source.EnumType, requestedLocale string) *ir.Entry {
	e := &ir.Entry{
		Name:          t.Name,
		QualifiedName: t.QualifiedName,
		Cases:         make([]ir.Case, 0, len(t.Cases)),
		Options:       make([]ir.Option, 0, len(t.Cases)),
	}
	e.Backing = t.Backing
	if !e.Backing.IsBacked() {
		for _, sc := range t.Cases {
			if sc.Value != nil {
				e.Backing, _ = ir.KindOf(sc.Value)
				break
			}
		}
	}

	for _, sc := range t.Cases {
		c := ir.Case{
			Key:   sc.Key,
			Value: sc.Value,
			Label: n.ResolveLabel(sc, t.Name, requestedLocale),
			Meta:  ResolveMeta(sc),
			Extra: n.computeExtras(t.Name, sc),
		}
		e.Cases = append(e.Cases, c)

		opt := ir.Option{Value: sc.Value, Label: n.OptionLabel(c.Label, requestedLocale)}
		if !e.Backing.IsBacked() {
			opt.Value = sc.Key
		}
		e.Options = append(e.Options, opt)
	}
	return e
}

func (n *Normalizer) computeExtras(enumName string, sc source.Case) ir.Object {
	if len(sc.Computed) == 0 {
		return nil
	}
	var extra ir.Object
	for _, comp := range sc.Computed {
		v, err := evaluate(comp)
		if err == nil {
			v, err = ir.NormalizeValue(v)
		}
		if err != nil {
			n.log.Debug("omitting computed property",
				zap.String("enum", enumName),
				zap.String("case", sc.Key),
				zap.String("property", comp.Name),
				zap.Error(err))
			continue
		}
		extra = extra.Set(comp.Name, v)
	}
	return extra
}

func evaluate(comp source.Computed) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic: %v", r)
		}
	}()
	return comp.Eval()
}
