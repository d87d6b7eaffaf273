// Package manifest implements the manifest command, which prints the
// manifest JSON without writing modules.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
	"github.com/broady/enumshare/i18n"
)

// Cmd prints the manifest JSON for one locale.
type Cmd struct {
	Locale string `help:"Locale labels are resolved for (overrides export.locale)." short:"l"`
	Indent bool   `help:"Indent the JSON." default:"true" negatable:""`
}

func (c *Cmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	g, err := env.Generator(cfg)
	if err != nil {
		return err
	}
	locale := cfg.Export.Locale
	if c.Locale != "" {
		if err := i18n.ValidateLocale(c.Locale); err != nil {
			return err
		}
		locale = c.Locale
	}
	m, err := g.Registry().Manifest(env.Ctx, locale)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(m), "write manifest")
}
