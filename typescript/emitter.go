package typescript

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/enumshare/ir"
)

// Emitter writes the TypeScript module for one enum.
type Emitter struct {
	entry  *ir.Entry
	opts   Options
	shape  *shape
	indent string

	// ident is the enum object binding; type names derive from it.
	ident string

	// caseIdents holds the constant name of each case.
	caseIdents []string

	warnings []ir.Warning
}

func newEmitter(entry *ir.Entry, opts Options) *Emitter {
	e := &Emitter{
		entry:  entry,
		opts:   opts,
		shape:  inferShape(entry),
		indent: opts.Indent,
		ident:  sanitizeIdentifier(entry.Name),
	}
	idents := newIdentAllocator(e.ident)
	e.caseIdents = make([]string, len(entry.Cases))
	for i, c := range entry.Cases {
		e.caseIdents[i] = idents.alloc(c.Key)
	}
	return e
}

func (e *Emitter) warn(code, format string, args ...any) {
	e.warnings = append(e.warnings, ir.Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Enum:    e.entry.Name,
	})
}

func (e *Emitter) typeName(suffix string) string {
	return e.ident + suffix
}

// emit writes the complete module.
func (e *Emitter) emit(buf *bytes.Buffer) {
	e.checkValues()

	e.emitHeader(buf)
	if e.opts.Strategy == StrategyRuntime {
		fmt.Fprintf(buf, "import { buildEnum } from %s;\n\n", quote(e.opts.RuntimeImport))
	}
	e.emitTypes(buf)

	if e.opts.Strategy == StrategyRuntime {
		e.emitDoc(buf)
		e.emitRuntimeObject(buf)
	} else {
		e.emitEntries(buf)
		e.emitCollections(buf)
		e.emitCaseConstants(buf)
		if e.shape.localized {
			e.emitResolveLabel(buf)
		}
		e.emitDoc(buf)
		e.emitInlineObject(buf)
	}
	fmt.Fprintf(buf, "\nexport default %s;\n", e.ident)
}

// checkValues reports integers that lose precision as JavaScript numbers.
func (e *Emitter) checkValues() {
	for _, c := range e.entry.Cases {
		if n, ok := c.Value.(int64); ok && !isSafeInteger(n) {
			e.warn(WarnUnsafeInteger, "case %s value %d is outside the JavaScript safe integer range", c.Key, n)
		}
	}
}

func (e *Emitter) emitHeader(buf *bytes.Buffer) {
	buf.WriteString(Header)
	buf.WriteString("\n")
	if e.opts.Locale != "" {
		fmt.Fprintf(buf, "// Locale: %s\n", e.opts.Locale)
	}
	buf.WriteString("\n")
	if fm := strings.TrimSpace(e.opts.Frontmatter); fm != "" {
		buf.WriteString(fm)
		buf.WriteString("\n\n")
	}
}

func (e *Emitter) exportKeyword() string {
	if e.opts.ExportTypes {
		return "export "
	}
	return ""
}

// emitTypes writes the Key, Value, Meta, Entry and Option types.
func (e *Emitter) emitTypes(buf *bytes.Buffer) {
	exp := e.exportKeyword()

	keys := make([]string, len(e.entry.Cases))
	for i, c := range e.entry.Cases {
		keys[i] = quote(c.Key)
	}
	fmt.Fprintf(buf, "%stype %s = %s;\n\n", exp, e.typeName("Key"), strings.Join(keys, " | "))

	if e.entry.Backing.IsBacked() {
		var values union
		for _, c := range e.entry.Cases {
			if c.Value != nil {
				values.add(literal(c.Value))
			}
		}
		fmt.Fprintf(buf, "%stype %s = %s;\n\n", exp, e.typeName("Value"), values.String())
	} else {
		fmt.Fprintf(buf, "%stype %s = %s;\n\n", exp, e.typeName("Value"), e.typeName("Key"))
	}

	if len(e.shape.meta) == 0 {
		fmt.Fprintf(buf, "%stype %s = Record<string, unknown>;\n\n", exp, e.typeName("Meta"))
	} else {
		fmt.Fprintf(buf, "%stype %s = {\n", exp, e.typeName("Meta"))
		e.emitFields(buf, e.shape.meta)
		buf.WriteString("};\n\n")
	}

	fmt.Fprintf(buf, "%stype %s = {\n", exp, e.typeName("Entry"))
	fmt.Fprintf(buf, "%sreadonly key: %s;\n", e.indent, e.typeName("Key"))
	fmt.Fprintf(buf, "%sreadonly value: %s;\n", e.indent, e.shape.valueType())
	fmt.Fprintf(buf, "%sreadonly label: %s;\n", e.indent, e.shape.label.String())
	fmt.Fprintf(buf, "%sreadonly meta: %s;\n", e.indent, e.typeName("Meta"))
	e.emitFields(buf, e.shape.extras)
	buf.WriteString("};\n\n")

	optionValue := e.typeName("Value")
	if e.shape.nullable {
		optionValue += " | null"
	}
	fmt.Fprintf(buf, "%stype %s = {\n", exp, e.typeName("Option"))
	fmt.Fprintf(buf, "%sreadonly value: %s;\n", e.indent, optionValue)
	fmt.Fprintf(buf, "%sreadonly label: string;\n", e.indent)
	buf.WriteString("};\n\n")
}

func (e *Emitter) emitFields(buf *bytes.Buffer, fields []*field) {
	for _, f := range fields {
		opt := ""
		if f.optional {
			opt = "?"
		}
		fmt.Fprintf(buf, "%sreadonly %s%s: %s;\n", e.indent, propertyKey(f.name), opt, f.typ.String())
	}
}

// entryLiteral formats one case record.
func (e *Emitter) entryLiteral(c ir.Case) string {
	var b strings.Builder
	b.WriteString("{ key: ")
	b.WriteString(quote(c.Key))
	b.WriteString(", value: ")
	b.WriteString(literal(c.Value))
	b.WriteString(", label: ")
	b.WriteString(labelLiteral(c.Label))
	b.WriteString(", meta: ")
	b.WriteString(objectLiteral(c.Meta))
	for _, f := range c.Extra {
		if reservedEntryFields[f.Key] {
			e.warn(WarnExtraShadowed, "case %s property %q collides with an entry field and is not emitted", c.Key, f.Key)
			continue
		}
		b.WriteString(", ")
		b.WriteString(propertyKey(f.Key))
		b.WriteString(": ")
		b.WriteString(literal(f.Value))
	}
	b.WriteString(" }")
	return b.String()
}

func optionLiteral(o ir.Option) string {
	return "{ value: " + literal(o.Value) + ", label: " + quote(o.Label) + " }"
}

func (e *Emitter) emitEntries(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "const ENTRIES: readonly %s[] = Object.freeze([\n", e.typeName("Entry"))
	for _, c := range e.entry.Cases {
		fmt.Fprintf(buf, "%s%s,\n", e.indent, e.entryLiteral(c))
	}
	buf.WriteString("]);\n\n")
}

func (e *Emitter) emitCollections(buf *bytes.Buffer) {
	keys := make([]string, len(e.entry.Cases))
	for i, c := range e.entry.Cases {
		keys[i] = quote(c.Key)
	}
	fmt.Fprintf(buf, "const KEYS: readonly %s[] = Object.freeze([%s]);\n", e.typeName("Key"), strings.Join(keys, ", "))

	if e.entry.Backing.IsBacked() {
		var values []string
		for _, c := range e.entry.Cases {
			if c.Value != nil {
				values = append(values, literal(c.Value))
			}
		}
		fmt.Fprintf(buf, "const VALUES: readonly %s[] = Object.freeze([%s]);\n", e.typeName("Value"), strings.Join(values, ", "))
	} else {
		fmt.Fprintf(buf, "const VALUES: readonly %s[] = KEYS;\n", e.typeName("Value"))
	}

	fmt.Fprintf(buf, "const OPTIONS: readonly %s[] = Object.freeze([\n", e.typeName("Option"))
	for _, o := range e.entry.Options {
		fmt.Fprintf(buf, "%sObject.freeze(%s),\n", e.indent, optionLiteral(o))
	}
	buf.WriteString("]);\n\n")

	entryType := e.typeName("Entry")
	fmt.Fprintf(buf, "const BY_KEY = new Map<string, %s>();\n", entryType)
	if e.entry.Backing.IsBacked() {
		fmt.Fprintf(buf, "const BY_VALUE = new Map<%s, %s>();\n", e.shape.baseType, entryType)
	}
	buf.WriteString("for (const entry of ENTRIES) {\n")
	in := e.indent
	fmt.Fprintf(buf, "%sObject.freeze(entry.meta);\n", in)
	if e.shape.localized {
		fmt.Fprintf(buf, "%sif (typeof entry.label === 'object') Object.freeze(entry.label);\n", in)
	}
	fmt.Fprintf(buf, "%sObject.freeze(entry);\n", in)
	fmt.Fprintf(buf, "%sBY_KEY.set(entry.key, entry);\n", in)
	switch {
	case e.entry.Backing.IsBacked() && e.shape.nullable:
		fmt.Fprintf(buf, "%sif (entry.value !== null) BY_VALUE.set(entry.value, entry);\n", in)
	case e.entry.Backing.IsBacked():
		fmt.Fprintf(buf, "%sBY_VALUE.set(entry.value, entry);\n", in)
	}
	buf.WriteString("}\n\n")
}

func (e *Emitter) emitCaseConstants(buf *bytes.Buffer) {
	for i, c := range e.entry.Cases {
		fmt.Fprintf(buf, "const %s = BY_KEY.get(%s) as %s;\n", e.caseIdents[i], quote(c.Key), e.typeName("Entry"))
	}
	buf.WriteString("\n")
}

func (e *Emitter) emitResolveLabel(buf *bytes.Buffer) {
	in := e.indent
	fallback := quote(e.opts.FallbackLocale)
	fmt.Fprintf(buf, "function resolveLabel(label: string | %s, locale?: string): string {\n", localizedLabelType)
	fmt.Fprintf(buf, "%sif (typeof label === 'string') {\n", in)
	fmt.Fprintf(buf, "%s%sreturn label;\n", in, in)
	fmt.Fprintf(buf, "%s}\n", in)
	fmt.Fprintf(buf, "%sif (locale !== undefined && Object.prototype.hasOwnProperty.call(label, locale)) {\n", in)
	fmt.Fprintf(buf, "%s%sreturn label[locale] ?? '';\n", in, in)
	fmt.Fprintf(buf, "%s}\n", in)
	fmt.Fprintf(buf, "%sif (Object.prototype.hasOwnProperty.call(label, %s)) {\n", in, fallback)
	fmt.Fprintf(buf, "%s%sreturn label[%s] ?? '';\n", in, in, fallback)
	fmt.Fprintf(buf, "%s}\n", in)
	fmt.Fprintf(buf, "%sconst first = Object.keys(label)[0];\n", in)
	fmt.Fprintf(buf, "%sreturn first === undefined ? '' : (label[first] ?? '');\n", in)
	buf.WriteString("}\n\n")
}

// emitDoc writes the JSDoc block of the enum object.
func (e *Emitter) emitDoc(buf *bytes.Buffer) {
	first := e.entry.Cases[0]
	buf.WriteString("/**\n")
	fmt.Fprintf(buf, " * %s (%s).\n", e.entry.Name, docText(e.entry.QualifiedName))
	buf.WriteString(" *\n")
	buf.WriteString(" * @example\n")
	if label, ok := first.Label.First(); ok && !apiMembers[first.Key] && !needsQuoting(first.Key) {
		fmt.Fprintf(buf, " * %s.%s.label; // %s\n", e.ident, first.Key, docText(quote(label)))
	}
	lookup := first.Value
	if !e.entry.Backing.IsBacked() {
		lookup = first.Key
	}
	fmt.Fprintf(buf, " * %s.from(%s)?.key; // %s\n", e.ident, docText(literal(lookup)), docText(quote(first.Key)))
	fmt.Fprintf(buf, " * %s.options; // [{ value, label }, ...]\n", e.ident)
	buf.WriteString(" */\n")
}

// docText keeps s from closing a block comment.
func docText(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func backingLiteral(k ir.BackingKind) string {
	if !k.IsBacked() {
		return "null"
	}
	return quote(string(k))
}

// caseProperties returns the "key: constant" members of the enum object,
// skipping keys that collide with its API.
func (e *Emitter) caseProperties() []string {
	var props []string
	for i, c := range e.entry.Cases {
		if apiMembers[c.Key] {
			e.warn(WarnReservedKey, "case %s collides with an enum member and is only reachable through fromKey", c.Key)
			continue
		}
		key := propertyKey(c.Key)
		if key == e.caseIdents[i] {
			props = append(props, key)
		} else {
			props = append(props, key+": "+e.caseIdents[i])
		}
	}
	return props
}

func (e *Emitter) emitInlineObject(buf *bytes.Buffer) {
	in := e.indent
	entryType := e.typeName("Entry")
	lookup, keyType := "BY_KEY", "string"
	if e.entry.Backing.IsBacked() {
		lookup, keyType = "BY_VALUE", e.shape.baseType
	}

	fmt.Fprintf(buf, "export const %s = Object.freeze({\n", e.ident)
	fmt.Fprintf(buf, "%sname: %s,\n", in, quote(e.entry.Name))
	fmt.Fprintf(buf, "%squalifiedName: %s,\n", in, quote(e.entry.QualifiedName))
	fmt.Fprintf(buf, "%sbackingType: %s,\n", in, backingLiteral(e.entry.Backing))
	for _, p := range e.caseProperties() {
		fmt.Fprintf(buf, "%s%s,\n", in, p)
	}
	fmt.Fprintf(buf, "%sentries: ENTRIES,\n", in)
	fmt.Fprintf(buf, "%skeys: KEYS,\n", in)
	fmt.Fprintf(buf, "%svalues: VALUES,\n", in)
	fmt.Fprintf(buf, "%soptions: OPTIONS,\n", in)
	fmt.Fprintf(buf, "%scount: %s,\n", in, strconv.Itoa(len(e.entry.Cases)))

	fmt.Fprintf(buf, "%sfrom(value: string | number | null | undefined): %s | null {\n", in, entryType)
	fmt.Fprintf(buf, "%s%sreturn value === null || value === undefined ? null : (%s.get(value as %s) ?? null);\n", in, in, lookup, keyType)
	fmt.Fprintf(buf, "%s},\n", in)

	fmt.Fprintf(buf, "%sfromKey(key: string): %s | null {\n", in, entryType)
	fmt.Fprintf(buf, "%s%sreturn BY_KEY.get(key) ?? null;\n", in, in)
	fmt.Fprintf(buf, "%s},\n", in)

	fmt.Fprintf(buf, "%sisValid(value: unknown): value is %s {\n", in, e.typeName("Value"))
	fmt.Fprintf(buf, "%s%sreturn %s.has(value as %s);\n", in, in, lookup, keyType)
	fmt.Fprintf(buf, "%s},\n", in)

	fmt.Fprintf(buf, "%shasKey(key: unknown): key is %s {\n", in, e.typeName("Key"))
	fmt.Fprintf(buf, "%s%sreturn BY_KEY.has(key as string);\n", in, in)
	fmt.Fprintf(buf, "%s},\n", in)

	if e.shape.localized {
		fmt.Fprintf(buf, "%slabels(locale?: string): string[] {\n", in)
		fmt.Fprintf(buf, "%s%sreturn ENTRIES.map((entry) => resolveLabel(entry.label, locale));\n", in, in)
	} else {
		fmt.Fprintf(buf, "%slabels(_locale?: string): string[] {\n", in)
		fmt.Fprintf(buf, "%s%sreturn ENTRIES.map((entry) => entry.label);\n", in, in)
	}
	fmt.Fprintf(buf, "%s},\n", in)
	buf.WriteString("});\n")
}

func (e *Emitter) emitRuntimeObject(buf *bytes.Buffer) {
	in := e.indent
	for _, c := range e.entry.Cases {
		if apiMembers[c.Key] {
			e.warn(WarnReservedKey, "case %s collides with an enum member and is only reachable through fromKey", c.Key)
		}
	}

	fmt.Fprintf(buf, "export const %s = buildEnum<%s, %s, %s, %s>({\n", e.ident,
		e.typeName("Entry"), e.typeName("Option"), e.typeName("Key"), e.typeName("Value"))
	fmt.Fprintf(buf, "%sname: %s,\n", in, quote(e.entry.Name))
	fmt.Fprintf(buf, "%squalifiedName: %s,\n", in, quote(e.entry.QualifiedName))
	fmt.Fprintf(buf, "%sbackingType: %s,\n", in, backingLiteral(e.entry.Backing))
	fmt.Fprintf(buf, "%sfallbackLocale: %s,\n", in, quote(e.opts.FallbackLocale))
	fmt.Fprintf(buf, "%sentries: [\n", in)
	for _, c := range e.entry.Cases {
		fmt.Fprintf(buf, "%s%s%s,\n", in, in, e.entryLiteral(c))
	}
	fmt.Fprintf(buf, "%s],\n", in)
	fmt.Fprintf(buf, "%soptions: [\n", in)
	for _, o := range e.entry.Options {
		fmt.Fprintf(buf, "%s%s%s,\n", in, in, optionLiteral(o))
	}
	fmt.Fprintf(buf, "%s],\n", in)
	buf.WriteString("});\n")
}
