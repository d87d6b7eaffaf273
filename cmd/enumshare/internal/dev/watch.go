package dev

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/config"
	"github.com/broady/enumshare/internal/watch"
)

// WatchCmd exports once and again after every relevant change.
type WatchCmd struct {
	Path     string        `help:"Output directory (overrides export.path)." short:"p"`
	Debounce time.Duration `help:"Quiet period before regenerating." default:"300ms"`
}

func (c *WatchCmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	if err := c.export(env.Ctx, env, cfg); err != nil {
		cli.PrintError(err)
	}
	return loop(env, c.Debounce, func(ctx context.Context, cfg *config.Config, changes []watch.Change) error {
		env.Log.Info("files changed", zap.Strings("paths", changedPaths(changes)))
		return c.export(ctx, env, cfg)
	})
}

func (c *WatchCmd) export(ctx context.Context, env *cli.Env, cfg *config.Config) error {
	dir := cfg.Export.Path
	if c.Path != "" {
		dir = c.Path
	}
	g, err := env.Generator(cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := g.ToDir(dir).Generate(ctx)
	if err != nil {
		return err
	}
	cli.PrintResult(res, dir)
	pterm.Debug.Printfln("regenerated in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
