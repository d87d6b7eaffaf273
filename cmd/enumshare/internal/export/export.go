// Package export implements the export and export-all-locales commands.
package export

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/enumshare"
	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
)

// Cmd exports every enum into one directory.
type Cmd struct {
	Path   string `help:"Output directory (overrides export.path)." short:"p"`
	Locale string `help:"Locale labels are resolved for (overrides export.locale)." short:"l"`
}

func (c *Cmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	dir := cfg.Export.Path
	if c.Path != "" {
		dir = c.Path
	}
	g, err := env.Generator(cfg)
	if err != nil {
		return err
	}
	if c.Locale != "" {
		g.Locale(c.Locale)
	}

	pterm.Info.Printfln("Exporting enums to %s", dir)
	res, err := g.ToDir(dir).Generate(env.Ctx)
	if err != nil {
		return cli.WarnConfiguration(err)
	}
	cli.PrintResult(res, dir)
	return failures(res)
}

// AllLocalesCmd exports one subdirectory of modules per locale.
type AllLocalesCmd struct {
	Path    string   `help:"Output directory (overrides export.path)." short:"p"`
	Locales []string `help:"Locales to export (overrides export.locales)." short:"l" sep:","`
}

func (c *AllLocalesCmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	dir := cfg.Export.Path
	if c.Path != "" {
		dir = c.Path
	}
	g, err := env.Generator(cfg)
	if err != nil {
		return err
	}

	results, err := g.ToDir(dir).GenerateAllLocales(env.Ctx, c.Locales...)
	for _, res := range results {
		cli.PrintResult(res, filepath.Join(dir, res.Locale))
	}
	if err != nil {
		return cli.WarnConfiguration(err)
	}
	for _, res := range results {
		if err := failures(res); err != nil {
			return err
		}
	}
	return nil
}

func failures(res *enumshare.Result) error {
	switch n := len(res.Errors); n {
	case 0:
		return nil
	case 1:
		return errors.New("1 enum could not be generated")
	default:
		return errors.Newf("%d enums could not be generated", n)
	}
}
