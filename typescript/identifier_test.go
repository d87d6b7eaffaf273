package typescript

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/broady/enumshare/ir"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Status", "Status"},
		{"in-progress", "in_progress"},
		{"2fa", "_2fa"},
		{"class", "class_"},
		{"$ref", "$ref"},
		{"", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeIdentifier(tt.in))
		})
	}
}

func TestPropertyKey(t *testing.T) {
	assert.Equal(t, "Saved", propertyKey("Saved"))
	assert.Equal(t, "'in-progress'", propertyKey("in-progress"))
	assert.Equal(t, "'1st'", propertyKey("1st"))
	assert.Equal(t, "'default'", propertyKey("default"))
	assert.Equal(t, "''", propertyKey(""))
}

func TestIdentAllocator(t *testing.T) {
	a := newIdentAllocator("Status")
	assert.Equal(t, "Status_2", a.alloc("Status"))
	assert.Equal(t, "KEYS_2", a.alloc("KEYS"))
	assert.Equal(t, "a_b", a.alloc("a-b"))
	assert.Equal(t, "a_b_2", a.alloc("a_b"))
	assert.Equal(t, "a_b_3", a.alloc("a.b"))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `'plain'`},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"line\nbreak\ttab\r", `'line\nbreak\ttab\r'`},
		{"sep\u2028para\u2029", `'sep\u2028para\u2029'`},
		{"bell\x07", `'bell\u0007'`},
		{"héllo 日本", `'héllo 日本'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in), tt.in)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"int", int64(-3), "-3"},
		{"float", 1.5, "1.5"},
		{"whole float", 2.0, "2"},
		{"nan", math.NaN(), "null"},
		{"string", "a", "'a'"},
		{"empty list", []any{}, "[]"},
		{"list", []any{int64(1), "a"}, "[1, 'a']"},
		{"empty object", ir.Object{}, "{}"},
		{"object", ir.Object{{Key: "a-b", Value: false}, {Key: "c", Value: nil}}, "{ 'a-b': false, c: null }"},
		{"unsupported", struct{}{}, "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literal(tt.in))
		})
	}
}

func TestLabelLiteral(t *testing.T) {
	assert.Equal(t, "'Saved'", labelLiteral(ir.PlainLabel("Saved")))
	assert.Equal(t, "{}", labelLiteral(ir.LocalizedLabel()))
	assert.Equal(t, "{ en: 'Hi', 'pt-BR': 'Oi' }", labelLiteral(ir.LocalizedLabel(
		ir.Translation{Locale: "en", Text: "Hi"},
		ir.Translation{Locale: "pt-BR", Text: "Oi"},
	)))
}

func TestObjectShape(t *testing.T) {
	fields := objectShape([]ir.Object{
		{{Key: "color", Value: "red"}, {Key: "priority", Value: int64(1)}},
		{{Key: "priority", Value: 2.5}, {Key: "color", Value: "blue"}, {Key: "tags", Value: []any{"a"}}},
		nil,
	})
	assert.Len(t, fields, 3)

	got := make(map[string]string)
	for _, f := range fields {
		opt := ""
		if f.optional {
			opt = "?"
		}
		got[f.name+opt] = f.typ.String()
	}
	assert.Equal(t, map[string]string{
		"color?":    "string",
		"priority?": "number",
		"tags?":     "string[]",
	}, got)

	fields = objectShape([]ir.Object{
		{{Key: "color", Value: "red"}},
		{{Key: "color", Value: nil}},
	})
	assert.Len(t, fields, 1)
	assert.False(t, fields[0].optional)
	assert.Equal(t, "string | null", fields[0].typ.String())
}
