package source

import (
	"context"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/broady/enumshare/internal/directive"
	"github.com/broady/enumshare/ir"
)

// SourceProvider describes enums by type-checking Go source with
// golang.org/x/tools/go/packages. Annotations come from //enumshare:
// directives. Source analysis cannot run code, so cases never carry
// computed extras; use a Table for those.
type SourceProvider struct {
	// Dir is the directory packages are loaded from. Empty means the
	// current directory.
	Dir string

	// BuildFlags are passed to the go command.
	BuildFlags []string
}

// Lookup loads the packages named by names and describes each type.
func (p *SourceProvider) Lookup(ctx context.Context, names []string) ([]Result, error) {
	results := make([]Result, len(names))
	var patterns []string
	seen := make(map[string]bool)
	for i, name := range names {
		results[i].Name = name
		pkgPath, _, ok := SplitName(name)
		if !ok || seen[pkgPath] {
			continue
		}
		seen[pkgPath] = true
		patterns = append(patterns, pkgPath)
	}
	if len(patterns) == 0 {
		return results, nil
	}

	cfg := &packages.Config{
		Context:    ctx,
		Dir:        p.Dir,
		BuildFlags: p.BuildFlags,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}

	byPath := make(map[string]*packages.Package, len(pkgs))
	for _, pkg := range pkgs {
		byPath[pkg.PkgPath] = pkg
	}

	for i, name := range names {
		pkgPath, typeName, ok := SplitName(name)
		if !ok {
			continue
		}
		pkg := byPath[pkgPath]
		if pkg == nil || pkg.Types == nil || len(pkg.Syntax) == 0 {
			continue
		}
		if len(pkg.Errors) > 0 {
			results[i].Err = errors.Newf("package %s has errors: %v", pkgPath, pkg.Errors[0])
			continue
		}
		results[i].Type, results[i].Err = describe(pkg, typeName)
	}
	return results, nil
}

// describe builds the EnumType for typeName in pkg. It returns nil when
// the package declares no such type.
func describe(pkg *packages.Package, typeName string) (*EnumType, error) {
	obj := pkg.Types.Scope().Lookup(typeName)
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil, nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, nil
	}

	t := &EnumType{
		Name:          typeName,
		QualifiedName: pkg.PkgPath + "." + typeName,
	}

	basic, ok := named.Underlying().(*types.Basic)
	if !ok {
		return t, nil
	}
	info := basic.Info()
	switch {
	case info&types.IsString != 0:
		t.Backing = ir.BackingString
	case info&types.IsInteger != 0:
		t.Backing = ir.BackingInt
	default:
		return t, nil
	}
	t.IsEnum = true

	idx := indexDecls(pkg)

	var typeDirs directive.Type
	if site, ok := idx.types[tn.Pos()]; ok {
		dirs, err := directive.ForType(pkg.Fset, site.decl, site.spec)
		if err != nil {
			return nil, err
		}
		typeDirs = dirs
	}
	if typeDirs.Pure {
		t.Backing = ir.BackingNone
	}
	t.Exported = typeDirs.Export || hasMarkerMethod(named)

	consts := scanEnumConstants(pkg.Types, named)
	keys := make(map[string]token.Position)
	for _, cnst := range consts {
		site, ok := idx.consts[cnst.Pos()]
		if !ok {
			continue
		}
		dirs, err := directive.ForConst(pkg.Fset, site.decl, site.spec)
		if err != nil {
			return nil, err
		}
		if dirs.Ignore {
			continue
		}

		c := Case{Key: dirs.Key, Meta: dirs.Meta}
		if c.Key == "" {
			c.Key = caseKey(typeName, cnst.Name())
		}
		pos := pkg.Fset.Position(cnst.Pos())
		if prev, dup := keys[c.Key]; dup {
			return nil, errors.Newf("%s: case key %q already used at %s", pos, c.Key, prev)
		}
		keys[c.Key] = pos

		if t.Backing.IsBacked() {
			v, err := constantValue(cnst.Val())
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s", pos, cnst.Name())
			}
			c.Value = v
		}
		if dirs.Label != nil {
			c.PlainLabel = &PlainLabel{Text: *dirs.Label}
		}
		if dirs.Trans != nil {
			c.TranslatedLabel = &TranslatedLabel{Key: dirs.Trans.Key, Params: dirs.Trans.Params}
		}
		t.Cases = append(t.Cases, c)
	}
	return t, nil
}

// scanEnumConstants returns the exported constants of type named, in
// declaration order.
func scanEnumConstants(pkg *types.Package, named *types.Named) []*types.Const {
	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok || !cnst.Exported() {
			continue
		}
		if types.Identical(cnst.Type(), named) {
			consts = append(consts, cnst)
		}
	}
	// Scope names are sorted alphabetically; cases follow the source.
	sort.SliceStable(consts, func(i, j int) bool {
		return consts[i].Pos() < consts[j].Pos()
	})
	return consts
}

// hasMarkerMethod reports whether the method set of *named has FrontendEnum.
func hasMarkerMethod(named *types.Named) bool {
	obj, _, _ := types.LookupFieldOrMethod(named, true, named.Obj().Pkg(), directive.MarkerMethod)
	_, ok := obj.(*types.Func)
	return ok
}

// constantValue converts a constant.Value to string or int64.
func constantValue(v constant.Value) (any, error) {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v), nil
	case constant.Int:
		i64, exact := constant.Int64Val(v)
		if !exact {
			return nil, errors.Newf("value %s overflows int64", v.ExactString())
		}
		return i64, nil
	}
	return nil, errors.Newf("unsupported constant %s", v.ExactString())
}

// caseKey trims the type name from a constant name when what remains is
// still an exported identifier: TripStatusSaved becomes Saved.
func caseKey(typeName, constName string) string {
	rest, ok := strings.CutPrefix(constName, typeName)
	if !ok || rest == "" {
		return constName
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return constName
	}
	return rest
}

type typeSite struct {
	decl *ast.GenDecl
	spec *ast.TypeSpec
}

type constSite struct {
	decl *ast.GenDecl
	spec *ast.ValueSpec
}

type declIndex struct {
	types  map[token.Pos]typeSite
	consts map[token.Pos]constSite
}

// indexDecls maps identifier positions to their declarations so that
// directives can be read for type-checked objects.
func indexDecls(pkg *packages.Package) declIndex {
	idx := declIndex{
		types:  make(map[token.Pos]typeSite),
		consts: make(map[token.Pos]constSite),
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gd.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					idx.types[s.Name.Pos()] = typeSite{decl: gd, spec: s}
				case *ast.ValueSpec:
					if gd.Tok != token.CONST {
						continue
					}
					for _, n := range s.Names {
						idx.consts[n.Pos()] = constSite{decl: gd, spec: s}
					}
				}
			}
		}
	}
	return idx
}
