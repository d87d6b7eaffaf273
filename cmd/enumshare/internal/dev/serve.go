package dev

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/broady/enumshare"
	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/config"
	"github.com/broady/enumshare/internal/devserver"
	"github.com/broady/enumshare/internal/watch"
	"github.com/broady/enumshare/lookup"
	"github.com/broady/enumshare/middleware"
	"github.com/broady/enumshare/sink"
)

// ServeCmd runs the dev server and regenerates on change.
type ServeCmd struct {
	Addr     string        `help:"Listen address (overrides dev.addr)." short:"a"`
	Write    bool          `help:"Also write modules to the export path on change." default:"true" negatable:""`
	Debounce time.Duration `help:"Quiet period before regenerating." default:"300ms"`
}

func (c *ServeCmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	addr := cfg.Dev.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	// The build function always reads the latest configuration.
	build := func(ctx context.Context, locale string, out sink.OutputSink) (*enumshare.Result, error) {
		cfg, err := env.Config()
		if err != nil {
			return nil, err
		}
		g, err := env.Generator(cfg)
		if err != nil {
			return nil, err
		}
		if locale != "" {
			g.Locale(locale)
		}
		return g.ToSink(out).Generate(ctx)
	}
	srv, err := devserver.New(devserver.Options{
		Build:          build,
		CORS:           &middleware.CORSConfig{AllowOrigins: cfg.Dev.AllowedOrigins},
		FallbackLocale: lookup.DefaultFallbackLocale,
		Logger:         env.Log,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(env.Ctx)
	g.Go(func() error {
		srv.Run(ctx)
		return nil
	})
	g.Go(func() error {
		pterm.Success.Printfln("enumshare dev server listening on http://%s", addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdown)
	})
	g.Go(func() error {
		if c.Write {
			c.write(ctx, env, cfg)
		}
		return loop(env.WithContext(ctx), c.Debounce, func(ctx context.Context, cfg *config.Config, changes []watch.Change) error {
			paths := changedPaths(changes)
			env.Log.Info("files changed", zap.Strings("paths", paths))
			if c.Write {
				c.write(ctx, env, cfg)
			}
			return srv.Invalidate(ctx, paths)
		})
	})
	return g.Wait()
}

func (c *ServeCmd) write(ctx context.Context, env *cli.Env, cfg *config.Config) {
	g, err := env.Generator(cfg)
	if err != nil {
		cli.PrintError(err)
		return
	}
	res, err := g.ToDir(cfg.Export.Path).Generate(ctx)
	if err != nil {
		cli.PrintError(err)
		return
	}
	cli.PrintResult(res, cfg.Export.Path)
}
