package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Get returns the process logger. The first call decides the level: pass true
// to enable debug output on a human-readable console writer.
func Get(debug ...bool) *zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		level := zerolog.InfoLevel
		var out io.Writer = os.Stdout
		if len(debug) > 0 && debug[0] {
			level = zerolog.DebugLevel
			out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
		}
		logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	})
	return &logger
}
