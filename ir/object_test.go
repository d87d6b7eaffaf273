package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject_PreservesOrder(t *testing.T) {
	obj, err := ParseObject([]byte(`{"zeta": 1, "alpha": "a", "mid": [1, 2.5, "x"], "nested": {"b": true, "a": null}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "nested"}, obj.Keys())

	v, ok := obj.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)

	mid, _ := obj.Get("mid")
	assert.Equal(t, []any{int64(1), 2.5, "x"}, mid)

	nested, _ := obj.Get("nested")
	assert.Equal(t, Object{{Key: "b", Value: true}, {Key: "a", Value: nil}}, nested)
}

func TestParseObject_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1, 2]`},
		{"scalar", `"text"`},
		{"trailing", `{"a": 1} {"b": 2}`},
		{"truncated", `{"a": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObject([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestObject_RoundTripJSON(t *testing.T) {
	in := `{"color":"green","priority":10,"tags":["a","b"],"extra":{"z":1,"a":2}}`
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(in), &obj))

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestObject_Set(t *testing.T) {
	obj := Object{{Key: "a", Value: int64(1)}}
	obj = obj.Set("b", "two")
	obj = obj.Set("a", int64(3))

	assert.Equal(t, Object{{Key: "a", Value: int64(3)}, {Key: "b", Value: "two"}}, obj)
}

func TestNormalizeValue(t *testing.T) {
	type point struct {
		Y int `json:"y"`
		X int `json:"x"`
	}
	type level uint8

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 7, int64(7)},
		{"named uint", level(3), int64(3)},
		{"float32", float32(1.5), 1.5},
		{"string slice", []string{"a", "b"}, []any{"a", "b"}},
		{"nil slice", []int(nil), []any{}},
		{"map sorted", map[string]int{"b": 2, "a": 1}, Object{{Key: "a", Value: int64(1)}, {Key: "b", Value: int64(2)}}},
		{"nil map", map[string]int(nil), Object{}},
		{"struct order", point{Y: 1, X: 2}, Object{{Key: "y", Value: int64(1)}, {Key: "x", Value: int64(2)}}},
		{"pointer", &point{Y: 5}, Object{{Key: "y", Value: int64(5)}, {Key: "x", Value: int64(0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeValue_Unsupported(t *testing.T) {
	for name, v := range map[string]any{
		"nan":      math.NaN(),
		"channel":  make(chan int),
		"func":     func() {},
		"overflow": uint64(math.MaxUint64),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeValue(v)
			assert.Error(t, err)
		})
	}
}
