// Package watch reports batches of file changes under a set of roots,
// debounced so that an editor save or a checkout triggers one rebuild.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Change is one changed path. Op accumulates every operation seen for the
// path during the debounce window.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Root is a directory watched recursively.
type Root struct {
	Dir string

	// Include keeps only files matching one of these doublestar patterns,
	// relative to Dir, for example "**/*.go". Empty keeps all.
	Include []string
}

// Options configures a Watcher.
type Options struct {
	Roots []Root

	// Exclude lists doublestar patterns of paths to ignore, relative to
	// their root. Matching directories are not watched.
	Exclude []string

	// Files are individual files watched in addition to the roots, such as
	// the config file. They need not exist yet.
	Files []string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	Logger *zap.Logger
}

// Watcher delivers debounced change batches.
type Watcher struct {
	opts  Options
	fs    *fsnotify.Watcher
	roots []Root
	files map[string]bool
	log   *zap.Logger
}

// New starts watching. The caller must call Run or Close.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	patterns := append([]string(nil), opts.Exclude...)
	for _, r := range opts.Roots {
		patterns = append(patterns, r.Include...)
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf("invalid pattern %q", p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{
		opts:  opts,
		fs:    fsw,
		files: make(map[string]bool),
		log:   opts.Logger,
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}

	for _, root := range opts.Roots {
		abs, err := filepath.Abs(root.Dir)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolve %s", root.Dir)
		}
		w.roots = append(w.roots, Root{Dir: abs, Include: root.Include})
		if err := w.addTree(abs, abs); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	dirs := make(map[string]bool)
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolve %s", f)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fsw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}
	return w, nil
}

// addTree watches dir and its subdirectories below root.
func (w *Watcher) addTree(root, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(root, path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Debug("cannot watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
	return errors.Wrapf(err, "watch %s", dir)
}

func (w *Watcher) skipDir(root, path string) bool {
	name := filepath.Base(path)
	if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	return matchAny(w.opts.Exclude, filepath.ToSlash(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// relevant reports whether a change to path should be delivered.
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	for _, root := range w.roots {
		rel, err := filepath.Rel(root.Dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if matchAny(w.opts.Exclude, rel) {
			return false
		}
		for _, part := range strings.Split(rel, "/") {
			if strings.HasPrefix(part, ".") {
				return false
			}
		}
		if len(root.Include) == 0 || matchAny(root.Include, rel) {
			return true
		}
	}
	return false
}

// Run delivers batches to onChange until ctx is done. Errors returned by
// onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []Change) error) error {
	defer w.fs.Close()

	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addCreated(ev.Name)
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !w.relevant(ev.Name) {
				continue
			}
			pending[ev.Name] |= ev.Op
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			changes := make([]Change, 0, len(pending))
			for path, op := range pending {
				changes = append(changes, Change{Path: path, Op: op})
			}
			clear(pending)
			sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })

			w.log.Debug("changes detected", zap.Int("files", len(changes)))
			if err := onChange(ctx, changes); err != nil {
				w.log.Error("change handler failed", zap.Error(err))
			}
		}
	}
}

// addCreated watches a directory created under one of the roots.
func (w *Watcher) addCreated(dir string) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root.Dir, dir)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if w.skipDir(root.Dir, dir) {
			return
		}
		if err := w.addTree(root.Dir, dir); err != nil {
			w.log.Debug("cannot watch new directory", zap.String("dir", dir), zap.Error(err))
		}
		return
	}
}

// Close stops watching without running.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
