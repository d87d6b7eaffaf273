package flavor

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/enumshare/ir"
)

// ZodFlavor emits a {Name}Schema validating enum values with Zod.
type ZodFlavor struct {
	mini bool
}

// Name implements Flavor.
func (f *ZodFlavor) Name() string {
	if f.mini {
		return "zod-mini"
	}
	return "zod"
}

// FileExtension implements Flavor.
func (f *ZodFlavor) FileExtension() string {
	return "." + f.Name() + ".ts"
}

// EmitPreamble implements Flavor.
func (f *ZodFlavor) EmitPreamble(ctx *EmitContext) []byte {
	var buf bytes.Buffer
	if f.mini {
		buf.WriteString("import * as z from 'zod/mini';\n")
	} else {
		buf.WriteString("import { z } from 'zod';\n")
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

// EmitEnum implements Flavor. String and unbacked enums use z.enum; integer
// enums use a union of literals. Nullable enums accept null.
func (f *ZodFlavor) EmitEnum(ctx *EmitContext, entry *ir.Entry) ([]byte, error) {
	var values []string
	var schema string
	switch entry.Backing {
	case ir.BackingString:
		for _, c := range entry.Cases {
			if s, ok := c.Value.(string); ok {
				values = append(values, strconv.Quote(s))
			}
		}
		schema = zodEnum(values)
	case ir.BackingInt:
		for _, c := range entry.Cases {
			if n, ok := c.Value.(int64); ok {
				if n > 1<<53-1 || n < -(1<<53-1) {
					ctx.AddWarning("%s.%s: value %d exceeds the safe integer range", entry.Name, c.Key, n)
				}
				values = append(values, "z.literal("+strconv.FormatInt(n, 10)+")")
			}
		}
		schema = zodUnion(values)
	default:
		for _, c := range entry.Cases {
			values = append(values, strconv.Quote(c.Key))
		}
		schema = zodEnum(values)
	}

	if entry.IsNullable() {
		if f.mini {
			schema = "z.nullable(" + schema + ")"
		} else {
			schema += ".nullable()"
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "export const %sSchema = %s;\n", ctx.TypePrefix, schema)
	if ctx.ExportTypes {
		fmt.Fprintf(&buf, "\nexport type %sSchemaValue = z.infer<typeof %sSchema>;\n", ctx.TypePrefix, ctx.TypePrefix)
	}
	return buf.Bytes(), nil
}

func zodEnum(values []string) string {
	if len(values) == 0 {
		return "z.never()"
	}
	return "z.enum([" + strings.Join(values, ", ") + "])"
}

func zodUnion(literals []string) string {
	switch len(literals) {
	case 0:
		return "z.never()"
	case 1:
		return literals[0]
	}
	return "z.union([" + strings.Join(literals, ", ") + "])"
}
