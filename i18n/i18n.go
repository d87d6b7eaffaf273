// Package i18n provides the translation backend used to resolve enum labels.
//
// A Translator follows one convention: when no translation exists for a key
// it returns the key unchanged. Callers detect a miss by comparing the
// result with the key.
package i18n

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
)

// Translator resolves translation keys.
type Translator interface {
	Translate(key string, params map[string]string, locale string) string
}

// Func adapts a function to the Translator interface.
type Func func(key string, params map[string]string, locale string) string

// Translate calls f.
func (f Func) Translate(key string, params map[string]string, locale string) string {
	return f(key, params, locale)
}

// Nop never finds a translation.
var Nop Translator = Func(func(key string, _ map[string]string, _ string) string {
	return key
})

// Replace substitutes ":name" placeholders in text with params. Longer
// names are replaced first so that ":count" wins over ":co".
func Replace(text string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(text, ":") {
		return text
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, ":"+name, params[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// ValidateLocale checks that code is a well-formed BCP 47 tag. Underscore
// separators (pt_BR) are accepted.
func ValidateLocale(code string) error {
	if code == "" {
		return errors.New("empty locale")
	}
	if _, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err != nil {
		return errors.Wrapf(err, "invalid locale %q", code)
	}
	return nil
}
