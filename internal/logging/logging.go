// Package logging configures the process-wide zerolog logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Viper keys the logger is configured from.
const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// Options override the viper-derived settings where set.
type Options struct {
	Level   string
	Format  string
	NoColor bool
}

// InitDefault installs a console logger at info level. Used before flags and
// config have been parsed.
func InitDefault() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = consoleLogger(false)
}

// Init installs the global logger from viper configuration, optionally
// overridden by opts. Unknown values fall back to the defaults rather than
// failing, so a typo in the config never hides startup errors.
func Init(opts *Options) {
	level := viper.GetString(LevelKey)
	format := viper.GetString(FormatKey)
	noColor := viper.GetBool(NoColorKey)
	if opts != nil {
		if opts.Level != "" {
			level = opts.Level
		}
		if opts.Format != "" {
			format = opts.Format
		}
		noColor = noColor || opts.NoColor
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch format {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		log.Logger = consoleLogger(noColor)
	}

	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}

func consoleLogger(noColor bool) zerolog.Logger {
	return log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	})
}
