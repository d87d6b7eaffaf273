// Package discover finds exported enum types by scanning Go source.
//
// Scanning is structural: files are parsed but not type-checked, so a
// package that does not compile does not stop discovery elsewhere. A type
// is an enum when its underlying type is a string or integer identifier and
// its package declares at least one constant of that type. It is eligible
// when it carries //enumshare:export or has a FrontendEnum method.
package discover

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/enumshare/internal/directive"
)

// Enum is a discovered enum type.
type Enum struct {
	Name          string         // type name
	QualifiedName string         // "{import path}.{Name}"
	PkgPath       string         // import path
	Pos           token.Position // type declaration
}

// Scanner walks directory trees looking for enums.
type Scanner struct {
	// Roots are the directories to walk. Empty means ".".
	Roots []string

	// Namespaces, when set, keep only enums whose import path or qualified
	// name matches one of these doublestar patterns, for example
	// "example.com/app/**" or "example.com/app/enums.Trip*".
	Namespaces []string

	// Exclude lists doublestar patterns matched against slash-separated
	// paths relative to each root. Matching directories are not entered.
	Exclude []string

	// Logger receives debug output about skipped files.
	Logger *zap.Logger
}

// Discover is shorthand for a Scanner over roots.
func Discover(ctx context.Context, roots ...string) ([]string, error) {
	s := &Scanner{Roots: roots}
	return s.Discover(ctx)
}

// Discover returns the qualified names of eligible enums, deduplicated, in
// walk order.
func (s *Scanner) Discover(ctx context.Context) ([]string, error) {
	enums, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(enums))
	for i, e := range enums {
		names[i] = e.QualifiedName
	}
	return names, nil
}

// Scan is like Discover but returns positions as well as names.
func (s *Scanner) Scan(ctx context.Context) ([]Enum, error) {
	for _, p := range append(append([]string(nil), s.Namespaces...), s.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf("invalid pattern %q", p)
		}
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	roots := s.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	w := &walker{
		log:     log,
		exclude: s.Exclude,
		modules: newModuleResolver(),
		seen:    make(map[string]bool),
	}
	for _, root := range roots {
		if err := w.walk(ctx, root); err != nil {
			return nil, err
		}
	}

	if len(s.Namespaces) == 0 {
		return w.enums, nil
	}
	var filtered []Enum
	for _, e := range w.enums {
		if matchAny(s.Namespaces, e.PkgPath) || matchAny(s.Namespaces, e.QualifiedName) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

type walker struct {
	log     *zap.Logger
	exclude []string
	modules *moduleResolver
	seen    map[string]bool
	enums   []Enum
}

func (w *walker) walk(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrap(err, "resolve root")
	}

	var dirs []string
	files := make(map[string][]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.log.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (skipDir(d.Name()) || matchAny(w.exclude, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		if matchAny(w.exclude, rel) {
			return nil
		}
		dir := filepath.Dir(path)
		if _, ok := files[dir]; !ok {
			dirs = append(dirs, dir)
		}
		files[dir] = append(files[dir], path)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "walk %s", root)
	}
	for _, dir := range dirs {
		w.scanDir(dir, files[dir])
	}
	return nil
}

// skipDir reports directories the go command ignores, plus vendor.
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// scanDir parses the files of one package directory and records its
// eligible enums.
func (w *walker) scanDir(dir string, paths []string) {
	fset := token.NewFileSet()
	var files []*ast.File
	for _, path := range paths {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			w.log.Debug("skipping unparseable file", zap.String("path", path), zap.Error(err))
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return
	}

	candidates := collect(fset, files)
	if len(candidates) == 0 {
		return
	}

	pkgPath, ok := w.modules.importPath(dir)
	if !ok {
		w.log.Debug("skipping directory outside a module", zap.String("dir", dir))
		return
	}
	for _, c := range candidates {
		qn := pkgPath + "." + c.name
		if w.seen[qn] {
			continue
		}
		w.seen[qn] = true
		w.enums = append(w.enums, Enum{
			Name:          c.name,
			QualifiedName: qn,
			PkgPath:       pkgPath,
			Pos:           c.pos,
		})
	}
}

type candidate struct {
	name   string
	pos    token.Position
	marked bool
}

// collect returns the eligible enum types declared in files, in
// declaration order.
func collect(fset *token.FileSet, files []*ast.File) []candidate {
	var types []*candidate
	byName := make(map[string]*candidate)
	methods := make(map[string]bool)
	consts := make(map[string]int)

	for _, f := range files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if recv, ok := directive.HasExportMethod(d); ok {
					methods[recv] = true
				}
			case *ast.GenDecl:
				switch d.Tok {
				case token.TYPE:
					for _, spec := range d.Specs {
						ts := spec.(*ast.TypeSpec)
						if ts.Assign.IsValid() || ts.TypeParams != nil || !basicUnderlying(ts.Type) {
							continue
						}
						dirs, err := directive.ForType(fset, d, ts)
						c := &candidate{
							name: ts.Name.Name,
							pos:  fset.Position(ts.Name.Pos()),
							// A malformed directive still nominates the type
							// so that loading it reports the error.
							marked: dirs.Export || err != nil,
						}
						types = append(types, c)
						byName[c.name] = c
					}
				case token.CONST:
					countConsts(d, consts)
				}
			}
		}
	}

	var out []candidate
	for _, c := range types {
		if consts[c.name] == 0 {
			continue
		}
		if c.marked || methods[c.name] {
			out = append(out, *c)
		}
	}
	return out
}

// countConsts counts constants per declared type name. Inside a
// parenthesized block a spec without type or values repeats the previous
// spec's type, as with iota.
func countConsts(d *ast.GenDecl, counts map[string]int) {
	var last string
	for _, spec := range d.Specs {
		vs := spec.(*ast.ValueSpec)
		var typ string
		switch {
		case vs.Type != nil:
			if ident, ok := vs.Type.(*ast.Ident); ok {
				typ = ident.Name
			}
		case len(vs.Values) == 0:
			typ = last
		case len(vs.Values) == len(vs.Names):
			// TripStatus("saved") style conversions.
			if call, ok := vs.Values[0].(*ast.CallExpr); ok && len(call.Args) == 1 {
				if ident, ok := call.Fun.(*ast.Ident); ok {
					typ = ident.Name
				}
			}
		}
		last = typ
		if typ != "" {
			counts[typ] += len(vs.Names)
		}
	}
}

var basicKinds = map[string]bool{
	"string": true,
	"int":    true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
}

func basicUnderlying(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && basicKinds[ident.Name]
}
