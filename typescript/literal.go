package typescript

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/broady/enumshare/ir"
)

// maxSafeInteger is Number.MAX_SAFE_INTEGER.
const maxSafeInteger = 1<<53 - 1

// isSafeInteger reports whether n is exactly representable as a JavaScript
// number.
func isSafeInteger(n int64) bool {
	return n >= -maxSafeInteger && n <= maxSafeInteger
}

// quote returns s as a single-quoted TypeScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// literal formats a JSON domain value as a TypeScript expression.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case string:
		return quote(x)
	case []any:
		if len(x) == 0 {
			return "[]"
		}
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = literal(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ir.Object:
		return objectLiteral(x)
	}
	return "undefined"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func objectLiteral(o ir.Object) string {
	if len(o) == 0 {
		return "{}"
	}
	parts := make([]string, len(o))
	for i, f := range o {
		parts[i] = propertyKey(f.Key) + ": " + literal(f.Value)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// labelLiteral formats a resolved label: a string, or an object keyed by
// locale.
func labelLiteral(l ir.Label) string {
	if !l.IsLocalized() {
		return quote(l.Text)
	}
	if len(l.Translations) == 0 {
		return "{}"
	}
	parts := make([]string, len(l.Translations))
	for i, t := range l.Translations {
		parts[i] = propertyKey(t.Locale) + ": " + quote(t.Text)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
