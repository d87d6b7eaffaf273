// Package check implements the check command, which regenerates every
// module in memory and fails when the files on disk differ.
package check

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/sink"
)

// Cmd regenerates into memory and compares the result with the files on disk.
type Cmd struct {
	Path       string `help:"Output directory to compare (overrides export.path)." short:"p"`
	AllLocales bool   `help:"Compare the per-locale directories written by export-all-locales." name:"all-locales"`
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

	cs := sink.NewCheckSink(dir)
	g.ToSink(cs)
	if c.AllLocales {
		_, err = g.GenerateAllLocales(env.Ctx)
	} else {
		_, err = g.Generate(env.Ctx)
	}
	if err != nil {
		return err
	}
	return Report(cs)
}

// Report prints the drift recorded by cs and returns an error when there
// is any.
func Report(cs *sink.CheckSink) error {
	drift := cs.Drift()
	if len(drift) == 0 {
		pterm.Success.Printfln("%d generated files are up to date", cs.Checked())
		return nil
	}
	for _, d := range drift {
		pterm.Error.Printfln("%s: %s", d.Path, d.Kind)
	}
	return errors.WithHint(
		errors.Newf("%d of %d generated files are out of date", len(drift), cs.Checked()),
		"run enumshare export and commit the result")
}
