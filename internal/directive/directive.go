// Package directive parses enumshare directives from Go source comments.
//
// Directives are line comments in the form:
//
//	//enumshare:export [pure]
//	//enumshare:label Trip Saved
//	//enumshare:trans enums.trip.saved name=Trip
//	//enumshare:meta {"color": "gray"}
//	//enumshare:key Saved
//	//enumshare:ignore
//
// The export directive belongs to a type declaration and marks it for
// export; "pure" exports it without backing values. The remaining
// directives belong to constant declarations and describe one case.
package directive

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/ir"
)

// Prefix starts every directive comment.
const Prefix = "//enumshare:"

// Kind represents the type of directive.
type Kind string

const (
	KindExport Kind = "export"
	KindLabel  Kind = "label"
	KindTrans  Kind = "trans"
	KindMeta   Kind = "meta"
	KindKey    Kind = "key"
	KindIgnore Kind = "ignore"
)

// Directive is one parsed directive comment.
type Directive struct {
	Kind Kind
	Args string         // text after the directive name, trimmed
	Pos  token.Position // source location
}

// Type holds the directives attached to a type declaration.
type Type struct {
	// Export is set when the type carries //enumshare:export.
	Export bool

	// Pure is set by //enumshare:export pure.
	Pure bool
}

// Translated is a translation key with parameters.
type Translated struct {
	Key    string
	Params map[string]string
}

// Case holds the directives attached to a constant declaration.
type Case struct {
	Key    string      // explicit key, empty when absent
	Label  *string     // plain label text
	Trans  *Translated // translated label
	Meta   ir.Object   // nil when absent
	Ignore bool
}

// Parse extracts the directives of a comment group, in order.
// Returns an error for unknown directive names.
func Parse(fset *token.FileSet, cg *ast.CommentGroup) ([]Directive, error) {
	if cg == nil {
		return nil, nil
	}
	var directives []Directive
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}
		text := strings.TrimPrefix(c.Text, Prefix)
		name, args, _ := strings.Cut(text, " ")
		pos := fset.Position(c.Pos())

		kind := Kind(strings.TrimSpace(name))
		switch kind {
		case KindExport, KindLabel, KindTrans, KindMeta, KindKey, KindIgnore:
		default:
			return nil, errors.Newf("%s: unknown directive %s%s", pos, Prefix, name)
		}
		directives = append(directives, Directive{
			Kind: kind,
			Args: strings.TrimSpace(args),
			Pos:  pos,
		})
	}
	return directives, nil
}

// Doc returns the comment group documenting spec. Specs inside a
// parenthesized declaration carry their own doc; a lone spec inherits the
// declaration's.
func Doc(decl *ast.GenDecl, spec ast.Spec) *ast.CommentGroup {
	var doc *ast.CommentGroup
	switch s := spec.(type) {
	case *ast.TypeSpec:
		doc = s.Doc
	case *ast.ValueSpec:
		doc = s.Doc
	}
	if doc == nil && !decl.Lparen.IsValid() {
		doc = decl.Doc
	}
	return doc
}

// ForType parses the directives documenting a type declaration.
func ForType(fset *token.FileSet, decl *ast.GenDecl, spec *ast.TypeSpec) (Type, error) {
	var t Type
	directives, err := Parse(fset, Doc(decl, spec))
	if err != nil {
		return t, err
	}
	for _, d := range directives {
		if d.Kind != KindExport {
			return t, errors.Newf("%s: %s%s is not valid on a type", d.Pos, Prefix, d.Kind)
		}
		if t.Export {
			return t, errors.Newf("%s: duplicate %s%s", d.Pos, Prefix, d.Kind)
		}
		t.Export = true
		switch d.Args {
		case "":
		case "pure":
			t.Pure = true
		default:
			return t, errors.Newf("%s: unknown export option %q", d.Pos, d.Args)
		}
	}
	return t, nil
}

// ForConst parses the directives documenting a constant declaration.
func ForConst(fset *token.FileSet, decl *ast.GenDecl, spec *ast.ValueSpec) (Case, error) {
	var c Case
	directives, err := Parse(fset, Doc(decl, spec))
	if err != nil {
		return c, err
	}
	seen := make(map[Kind]bool)
	for _, d := range directives {
		if seen[d.Kind] {
			return c, errors.Newf("%s: duplicate %s%s", d.Pos, Prefix, d.Kind)
		}
		seen[d.Kind] = true

		switch d.Kind {
		case KindExport:
			return c, errors.Newf("%s: %s%s is only valid on a type", d.Pos, Prefix, d.Kind)
		case KindLabel:
			if d.Args == "" {
				return c, errors.Newf("%s: %slabel requires text", d.Pos, Prefix)
			}
			text := d.Args
			c.Label = &text
		case KindTrans:
			tr, err := parseTranslated(d.Args)
			if err != nil {
				return c, errors.Wrapf(err, "%s", d.Pos)
			}
			c.Trans = tr
		case KindMeta:
			meta, err := ir.ParseObject([]byte(d.Args))
			if err != nil {
				return c, errors.Wrapf(err, "%s: invalid %smeta", d.Pos, Prefix)
			}
			c.Meta = meta
		case KindKey:
			if d.Args == "" || strings.ContainsAny(d.Args, " \t") {
				return c, errors.Newf("%s: %skey requires a single word", d.Pos, Prefix)
			}
			if len(spec.Names) > 1 {
				return c, errors.Newf("%s: %skey on a declaration of %d constants", d.Pos, Prefix, len(spec.Names))
			}
			c.Key = d.Args
		case KindIgnore:
			c.Ignore = true
		}
	}
	if c.Label != nil && c.Trans != nil {
		return c, errors.Newf("%s: %slabel and %strans are mutually exclusive", fset.Position(spec.Pos()), Prefix, Prefix)
	}
	return c, nil
}

// parseTranslated parses "key [name=value ...]".
func parseTranslated(args string) (*Translated, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil, errors.Newf("%strans requires a translation key", Prefix)
	}
	tr := &Translated{Key: fields[0]}
	for _, f := range fields[1:] {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, errors.Newf("invalid %strans parameter %q, want name=value", Prefix, f)
		}
		if tr.Params == nil {
			tr.Params = make(map[string]string)
		}
		tr.Params[name] = value
	}
	return tr, nil
}

// HasExportMethod reports whether fn declares a FrontendEnum method, the
// alternative export marker. It returns the receiver's type name.
func HasExportMethod(fn *ast.FuncDecl) (string, bool) {
	if fn.Recv == nil || len(fn.Recv.List) == 0 || fn.Name.Name != MarkerMethod {
		return "", false
	}
	typ := fn.Recv.List[0].Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	ident, ok := typ.(*ast.Ident)
	if !ok {
		return "", false
	}
	return ident.Name, true
}

// MarkerMethod is the name of the method that marks a type for export.
const MarkerMethod = "FrontendEnum"
