// Package dev implements the long-running commands: watch, which
// re-exports on change, and serve, which also serves the modules over HTTP.
package dev

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/config"
	"github.com/broady/enumshare/internal/watch"
)

// goInclude matches the files enum declarations live in.
var goInclude = []string{"**/*.go", "go.mod"}

// WatchOptions lists what to watch for cfg: Go files under the discovery
// paths (or the working directory), translation files and the config file.
// The export directory is excluded.
func WatchOptions(cfg *config.Config, debounce time.Duration, log *zap.Logger) watch.Options {
	goRoots := []string{"."}
	if cfg.Autodiscovery.Enabled && len(cfg.Autodiscovery.Paths) > 0 {
		goRoots = cfg.Autodiscovery.Paths
	}
	opts := watch.Options{
		Debounce: debounce,
		Logger:   log,
	}
	for _, dir := range goRoots {
		opts.Roots = append(opts.Roots, watch.Root{Dir: dir, Include: goInclude})
	}
	opts.Roots = append(opts.Roots, watch.Root{
		Dir:     cfg.Lang.Path,
		Include: []string{"**/*.yaml", "**/*.yml", "**/*.toml", "**/*.json", "**/*.jsonc"},
	})
	if out := filepath.ToSlash(filepath.Clean(cfg.Export.Path)); out != "." {
		opts.Exclude = append(opts.Exclude, out, out+"/**")
	}
	for _, ex := range cfg.Autodiscovery.Exclude {
		opts.Exclude = append(opts.Exclude, ex, ex+"/**")
	}
	if cfg.File != "" {
		opts.Files = append(opts.Files, cfg.File)
	}
	return opts
}

// changeHandler reacts to one batch of changes with the current config.
type changeHandler func(ctx context.Context, cfg *config.Config, changes []watch.Change) error

// loop watches until ctx is done, restarting the watcher whenever the
// config file changes so new paths take effect.
func loop(env *cli.Env, debounce time.Duration, handle changeHandler) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	for {
		w, err := watch.New(WatchOptions(cfg, debounce, env.Log))
		if err != nil {
			return err
		}
		pterm.Info.Println("Watching for changes (Ctrl+C to stop)")

		ctx, cancel := context.WithCancel(env.Ctx)
		restart := false
		err = w.Run(ctx, func(ctx context.Context, changes []watch.Change) error {
			reloaded := false
			if cfg.File != "" && touches(changes, cfg.File) {
				next, err := env.Reload()
				if err != nil {
					cli.PrintError(err)
					return nil
				}
				cfg, reloaded = next, true
			}
			if err := handle(ctx, cfg, changes); err != nil {
				cli.PrintError(err)
			}
			if reloaded {
				restart = true
				cancel()
			}
			return nil
		})
		cancel()
		if err != nil || !restart || env.Ctx.Err() != nil {
			return err
		}
		env.Log.Debug("config changed, restarting watcher")
	}
}

func touches(changes []watch.Change, file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return false
	}
	for _, c := range changes {
		if c.Path == abs {
			return true
		}
	}
	return false
}

// changedPaths returns the changed paths relative to the working directory.
func changedPaths(changes []watch.Change) []string {
	wd, _ := os.Getwd()
	paths := make([]string, len(changes))
	for i, c := range changes {
		if rel, err := filepath.Rel(wd, c.Path); err == nil && wd != "" {
			paths[i] = filepath.ToSlash(rel)
			continue
		}
		paths[i] = c.Path
	}
	return paths
}
