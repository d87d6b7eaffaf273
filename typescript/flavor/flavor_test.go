package flavor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/enumshare/ir"
)

func entry(backing ir.BackingKind, values ...any) *ir.Entry {
	e := &ir.Entry{Name: "Status", QualifiedName: "example.com/app.Status", Backing: backing}
	for i, v := range values {
		key := string(rune('A' + i))
		e.Cases = append(e.Cases, ir.Case{Key: key, Value: v, Label: ir.PlainLabel(key), Meta: ir.Object{}})
	}
	return e
}

func TestGet(t *testing.T) {
	for _, name := range Names {
		f, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}
	_, err := Get("yup")
	assert.ErrorContains(t, err, "unknown flavor")
}

func TestZodFlavor_Preamble(t *testing.T) {
	tests := []struct {
		name string
		mini bool
		want string
	}{
		{"zod", false, `import { z } from 'zod';`},
		{"zod-mini", true, `import * as z from 'zod/mini';`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ZodFlavor{mini: tt.mini}
			got := string(f.EmitPreamble(&EmitContext{}))
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestZodFlavor_FileExtension(t *testing.T) {
	assert.Equal(t, ".zod.ts", (&ZodFlavor{}).FileExtension())
	assert.Equal(t, ".zod-mini.ts", (&ZodFlavor{mini: true}).FileExtension())
}

func TestZodFlavor_EmitEnum(t *testing.T) {
	tests := []struct {
		name  string
		mini  bool
		entry *ir.Entry
		want  string
	}{
		{
			name:  "string enum",
			entry: entry(ir.BackingString, "draft", "published"),
			want:  `export const StatusSchema = z.enum(["draft", "published"]);`,
		},
		{
			name:  "numeric enum",
			entry: entry(ir.BackingInt, int64(1), int64(2)),
			want:  `export const StatusSchema = z.union([z.literal(1), z.literal(2)]);`,
		},
		{
			name:  "single numeric case",
			entry: entry(ir.BackingInt, int64(7)),
			want:  `export const StatusSchema = z.literal(7);`,
		},
		{
			name:  "unbacked enum uses keys",
			entry: entry(ir.BackingNone, nil, nil),
			want:  `export const StatusSchema = z.enum(["A", "B"]);`,
		},
		{
			name:  "nullable",
			entry: entry(ir.BackingString, "a", nil),
			want:  `export const StatusSchema = z.enum(["a"]).nullable();`,
		},
		{
			name:  "nullable mini",
			mini:  true,
			entry: entry(ir.BackingString, "a", nil),
			want:  `export const StatusSchema = z.nullable(z.enum(["a"]));`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ZodFlavor{mini: tt.mini}
			ctx := &EmitContext{TypePrefix: "Status"}
			got, err := f.EmitEnum(ctx, tt.entry)
			require.NoError(t, err)
			assert.Contains(t, string(got), tt.want)
			assert.NotContains(t, string(got), "SchemaValue")
		})
	}
}

func TestGenerate(t *testing.T) {
	f, err := Get("zod")
	require.NoError(t, err)
	ctx := &EmitContext{Header: "// generated", TypePrefix: "Status", ExportTypes: true}
	got, err := Generate(f, ctx, entry(ir.BackingInt, int64(1), int64(1<<60)))
	require.NoError(t, err)

	want := "// generated\n\n" +
		"import { z } from 'zod';\n\n" +
		"export const StatusSchema = z.union([z.literal(1), z.literal(1152921504606846976)]);\n\n" +
		"export type StatusSchemaValue = z.infer<typeof StatusSchema>;\n"
	assert.Equal(t, want, string(got))
	require.Len(t, ctx.Warnings, 1)
	assert.Contains(t, ctx.Warnings[0], "safe integer")
}
