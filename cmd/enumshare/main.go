package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/broady/enumshare/cmd/enumshare/internal/check"
	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/cmd/enumshare/internal/dev"
	"github.com/broady/enumshare/cmd/enumshare/internal/discover"
	"github.com/broady/enumshare/cmd/enumshare/internal/export"
	"github.com/broady/enumshare/cmd/enumshare/internal/manifest"
)

type CLI struct {
	cli.Globals

	Export           export.Cmd           `cmd:"" help:"Export enums as TypeScript modules."`
	ExportAllLocales export.AllLocalesCmd `cmd:"" name:"export-all-locales" help:"Export one directory of modules per locale."`
	Discover         discover.Cmd         `cmd:"" help:"List the enums found by auto-discovery."`
	Check            check.Cmd            `cmd:"" help:"Fail if the exported modules are out of date."`
	Manifest         manifest.Cmd         `cmd:"" help:"Print the enum manifest as JSON."`
	Watch            dev.WatchCmd         `cmd:"" help:"Export again whenever enums, translations or the config change."`
	Serve            dev.ServeCmd         `cmd:"" help:"Serve modules over HTTP with live reload."`
	Version          VersionCmd           `cmd:"" help:"Print version information."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	c := &CLI{}
	kctx := kong.Parse(c,
		kong.Name("enumshare"),
		kong.Description("Export Go enums as typed TypeScript modules."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := cli.NewEnv(ctx, &c.Globals)
	if err == nil {
		err = kctx.Run(env)
		env.Log.Sync()
	}
	if err != nil {
		cli.PrintError(err)
		stop()
		os.Exit(1)
	}
}
