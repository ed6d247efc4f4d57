package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if c.LogLevel != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(c.LogLevel))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
		}
	}

	if strings.EqualFold(c.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
