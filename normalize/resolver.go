package normalize

import (
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/source"
)

// ResolveLabel resolves the label of one case.
//
// A translated label resolves against every configured locale and yields a
// locale map; with no configured locales it resolves once against
// requestedLocale (or the app locale) and yields plain text. A plain label
// is used verbatim. Otherwise the key "{namespace}.{enumName}.{caseKey}" is
// looked up, falling back to the case key when the translator has no entry.
func (n *Normalizer) ResolveLabel(c source.Case, enumName, requestedLocale string) ir.Label {
	locale := n.locale(requestedLocale)

	if tl := c.TranslatedLabel; tl != nil {
		if len(n.opts.Locales) == 0 {
			return ir.PlainLabel(n.tr.Translate(tl.Key, tl.Params, locale))
		}
		translations := make([]ir.Translation, 0, len(n.opts.Locales))
		for _, l := range n.opts.Locales {
			translations = append(translations, ir.Translation{
				Locale: l,
				Text:   n.tr.Translate(tl.Key, tl.Params, l),
			})
		}
		return ir.LocalizedLabel(translations...)
	}

	if c.PlainLabel != nil {
		return ir.PlainLabel(c.PlainLabel.Text)
	}

	key := n.opts.Namespace + "." + enumName + "." + c.Key
	if text := n.tr.Translate(key, nil, locale); text != key {
		return ir.PlainLabel(text)
	}
	return ir.PlainLabel(c.Key)
}

// ResolveMeta returns the declared metadata of c, or an empty object.
func ResolveMeta(c source.Case) ir.Object {
	if c.Meta == nil {
		return ir.Object{}
	}
	return c.Meta
}

// OptionLabel flattens a label to one string: the requested locale, then
// the app locale, then the first translation.
func (n *Normalizer) OptionLabel(l ir.Label, requestedLocale string) string {
	if !l.IsLocalized() {
		return l.Text
	}
	if requestedLocale != "" {
		if text, ok := l.Lookup(requestedLocale); ok {
			return text
		}
	}
	if text, ok := l.Lookup(n.opts.AppLocale); ok {
		return text
	}
	text, _ := l.First()
	return text
}

func (n *Normalizer) locale(requested string) string {
	if requested != "" {
		return requested
	}
	return n.opts.AppLocale
}
