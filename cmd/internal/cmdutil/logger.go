package cmdutil

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type logConfig struct {
	level  string
	format string
}

var logCfg = logConfig{
	level:  zerolog.InfoLevel.String(),
	format: "console",
}

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&logCfg.level,
		"level",
		logCfg.level,
		"log level, one of trace, debug, info, warn or error",
	)
	cmd.PersistentFlags().StringVar(
		&logCfg.format,
		"log-format",
		logCfg.format,
		`"console" for human readable logs or "json" for one object per line`,
	)
}

// Logger builds the logger described by the flags. Logs always go to stderr
// so stdout only carries command output.
func Logger() (zerolog.Logger, error) {
	return newLogger(os.Stderr, logCfg)
}

func newLogger(w io.Writer, cfg logConfig) (zerolog.Logger, error) {
	switch cfg.format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w}
	case "json":
	default:
		return zerolog.Nop(), errors.Newf("unknown log format %q", cfg.format)
	}
	lvl, err := zerolog.ParseLevel(cfg.level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level")
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
