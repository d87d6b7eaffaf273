package discover

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// moduleResolver maps directories to import paths using the nearest
// go.mod. Results are memoized for the lifetime of one scan.
type moduleResolver struct {
	roots map[string]moduleRoot
}

type moduleRoot struct {
	dir  string
	path string
	ok   bool
}

func newModuleResolver() *moduleResolver {
	return &moduleResolver{roots: make(map[string]moduleRoot)}
}

// importPath returns the import path of the package in dir.
func (r *moduleResolver) importPath(dir string) (string, bool) {
	root := r.find(dir)
	if !root.ok {
		return "", false
	}
	rel, err := filepath.Rel(root.dir, dir)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return root.path, true
	}
	return path.Join(root.path, filepath.ToSlash(rel)), true
}

func (r *moduleResolver) find(dir string) moduleRoot {
	if root, ok := r.roots[dir]; ok {
		return root
	}
	var root moduleRoot
	if modPath, ok := readModulePath(filepath.Join(dir, "go.mod")); ok {
		root = moduleRoot{dir: dir, path: modPath, ok: true}
	} else if parent := filepath.Dir(dir); parent != dir {
		root = r.find(parent)
	}
	r.roots[dir] = root
	return root
}

func readModulePath(goMod string) (string, bool) {
	data, err := os.ReadFile(goMod)
	if err != nil {
		return "", false
	}
	modPath := strings.TrimSpace(modfile.ModulePath(data))
	return modPath, modPath != ""
}
