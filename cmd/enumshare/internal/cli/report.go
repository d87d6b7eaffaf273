package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/enumshare"
)

// PrintResult reports one export run: skipped candidates, generation
// errors, warnings, then a summary line.
func PrintResult(res *enumshare.Result, dir string) {
	for _, inv := range res.Report.Invalid {
		pterm.Warning.Printfln("%s: %s", inv.Name, inv.Reason)
	}
	for _, c := range res.Report.Collisions {
		pterm.Warning.Printfln("%s: %s replaced by %s", c.Name, c.Replaced, c.By)
	}
	for _, w := range res.Warnings {
		if w.Enum != "" {
			pterm.Warning.Printfln("%s: %s", w.Enum, w.Message)
			continue
		}
		pterm.Warning.Println(w.Message)
	}
	for _, err := range res.Errors {
		pterm.Error.Println(err.Error())
	}

	where := dir
	if res.Locale != "" {
		where += " (" + res.Locale + ")"
	}
	switch {
	case res.EnumsGenerated == 0:
		pterm.Warning.Printfln("No enums exported to %s", where)
	case res.EnumsGenerated == 1:
		pterm.Success.Printfln("Exported 1 enum to %s", where)
	default:
		pterm.Success.Printfln("Exported %d enums to %s", res.EnumsGenerated, where)
	}
}

// PrintError prints err and any hints attached to it.
func PrintError(err error) {
	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
}

// WarnConfiguration prints a ConfigurationError as a warning and returns
// nil. Other errors are returned unchanged.
func WarnConfiguration(err error) error {
	var cerr *enumshare.ConfigurationError
	if !errors.As(err, &cerr) {
		return err
	}
	pterm.Warning.Println(cerr.Message)
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
	return nil
}
