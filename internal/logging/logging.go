// Package logging builds the zap loggers used by the command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures New.
type Options struct {
	// Level is a zap level name such as "debug" or "warn". Defaults to info.
	Level string

	// Format is FormatConsole (default) or FormatJSON.
	Format string

	// Output defaults to os.Stderr so that command output on stdout stays
	// clean.
	Output io.Writer

	// NoColor disables level colors in console output.
	NoColor bool
}

// New returns a logger for opts.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.WithHint(errors.Wrap(err, "log level"), "use debug, info, warn or error")
		}
		level = l
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		enc = zapcore.NewConsoleEncoder(consoleConfig(opts.NoColor))
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, errors.WithHint(errors.Newf("unknown log format %q", opts.Format), "use console or json")
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core), nil
}

// consoleConfig is a calm, human-oriented encoder: short time, level,
// message and fields, no caller or stack.
func consoleConfig(noColor bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	cfg.ConsoleSeparator = "  "
	if noColor {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}
