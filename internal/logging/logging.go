// Package logging builds the zerolog loggers used across the application.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(name))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a console logger writing to w at the given level.
func New(level string, w io.Writer) zerolog.Logger {
	_, isFile := w.(*os.File)
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isFile,
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// NewFile logs to <dir>/<name>.log without colours, for the full-screen views
// where the terminal is taken. The returned closer closes the file.
func NewFile(level, dir, name string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	out := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger(), f, nil
}

// Component tags a logger with the emitting component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
