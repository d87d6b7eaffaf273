package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/enumshare/ir"
)

type tripStatus string

func orderStatus() *ir.Entry {
	return &ir.Entry{
		Name:          "OrderStatus",
		QualifiedName: "example.com/app.OrderStatus",
		Backing:       ir.BackingString,
		Cases: []ir.Case{
			{Key: "Pending", Value: "pending", Label: ir.LocalizedLabel(
				ir.Translation{Locale: "en", Text: "Pending"},
				ir.Translation{Locale: "fr", Text: "En attente"},
			), Meta: ir.Object{}},
			{Key: "Cancelled", Value: "cancelled", Label: ir.PlainLabel("Cancelled"), Meta: ir.Object{}},
		},
		Options: []ir.Option{
			{Value: "pending", Label: "Pending"},
			{Value: "cancelled", Label: "Cancelled"},
		},
	}
}

func TestEnum_StringBacked(t *testing.T) {
	e := Build(orderStatus())

	assert.Equal(t, "OrderStatus", e.Name())
	assert.Equal(t, 2, e.Count())
	assert.Equal(t, []string{"Pending", "Cancelled"}, e.Keys())
	assert.Equal(t, []any{"pending", "cancelled"}, e.Values())
	assert.Len(t, e.Options(), 2)
	assert.Len(t, e.Entries(), 2)

	c, ok := e.From("cancelled")
	require.True(t, ok)
	assert.Equal(t, "Cancelled", c.Key)

	c, ok = e.From(tripStatus("pending"))
	require.True(t, ok)
	assert.Equal(t, "Pending", c.Key)

	for _, v := range []any{"Cancelled", nil, 1, true} {
		assert.False(t, e.IsValid(v), "%v", v)
	}
	assert.True(t, e.IsValid("pending"))
}

func TestEnum_FromKeyRoundTrip(t *testing.T) {
	e := Build(orderStatus())
	for _, key := range e.Keys() {
		c, ok := e.FromKey(key)
		require.True(t, ok)
		assert.Equal(t, key, c.Key)
		assert.True(t, e.HasKey(key))

		byValue, ok := e.From(c.Value)
		require.True(t, ok)
		assert.Equal(t, key, byValue.Key)
	}
	_, ok := e.FromKey("pending")
	assert.False(t, ok)
	assert.False(t, e.HasKey("Missing"))
}

func TestEnum_IntBacked(t *testing.T) {
	e := Build(&ir.Entry{
		Name:    "Priority",
		Backing: ir.BackingInt,
		Cases: []ir.Case{
			{Key: "Low", Value: int64(1), Label: ir.PlainLabel("Low")},
			{Key: "High", Value: int64(5), Label: ir.PlainLabel("High")},
			{Key: "Unset", Value: nil, Label: ir.PlainLabel("Unset")},
		},
	})

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int64", int64(5), "High"},
		{"int", 1, "Low"},
		{"uint8", uint8(5), "High"},
		{"whole float", float64(1), "Low"},
		{"fractional float", 1.5, ""},
		{"string", "1", ""},
		{"nil", nil, ""},
		{"unknown", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := e.From(tt.value)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, c.Key)
		})
	}
	assert.Equal(t, []any{int64(1), int64(5)}, e.Values())
}

func TestEnum_Unbacked(t *testing.T) {
	e := Build(&ir.Entry{
		Name: "Visibility",
		Cases: []ir.Case{
			{Key: "Public", Label: ir.PlainLabel("Public")},
			{Key: "Private", Label: ir.PlainLabel("Private")},
		},
	})
	assert.Equal(t, []any{"Public", "Private"}, e.Values())

	c, ok := e.From("Private")
	require.True(t, ok)
	assert.Equal(t, "Private", c.Key)
	assert.False(t, e.IsValid(0))
	assert.False(t, e.IsValid(nil))
}

func TestEnum_Labels(t *testing.T) {
	e := Build(orderStatus())
	assert.Equal(t, []string{"En attente", "Cancelled"}, e.Labels("fr"))
	assert.Equal(t, []string{"Pending", "Cancelled"}, e.Labels("de"))
	assert.Equal(t, []string{"Pending", "Cancelled"}, e.Labels(""))

	fr := Build(orderStatus(), WithFallbackLocale("fr"))
	assert.Equal(t, []string{"En attente", "Cancelled"}, fr.Labels("de"))
	assert.Equal(t, []string{"Pending", "Cancelled"}, fr.Labels("en"))
}

func TestResolveLabel(t *testing.T) {
	localized := ir.LocalizedLabel(
		ir.Translation{Locale: "de", Text: "Ausstehend"},
		ir.Translation{Locale: "en", Text: "Pending"},
	)
	tests := []struct {
		name     string
		label    ir.Label
		locale   string
		fallback string
		want     string
	}{
		{"plain ignores locale", ir.PlainLabel("Saved"), "fr", "en", "Saved"},
		{"requested locale", localized, "de", "en", "Ausstehend"},
		{"fallback locale", localized, "fr", "en", "Pending"},
		{"first translation", localized, "fr", "es", "Ausstehend"},
		{"empty map", ir.LocalizedLabel(), "fr", "en", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLabel(tt.label, tt.locale, tt.fallback))
		})
	}
}
