// Package discover implements the discover command.
package discover

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/broady/enumshare/cmd/enumshare/internal/cli"
)

// Cmd lists the enums found by auto-discovery.
type Cmd struct{}

func (c *Cmd) Run(env *cli.Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	g, err := env.Generator(cfg)
	if err != nil {
		return err
	}
	names, err := g.Registry().Discover(env.Ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		pterm.Warning.Println("No enums discovered")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	pterm.Success.Printfln("Discovered %d enums", len(names))
	return nil
}
