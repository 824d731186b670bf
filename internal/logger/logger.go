package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls how the process-wide logger is built.
type Options struct {
	Level  string
	Pretty bool
	// File, when set, receives a copy of every line with size-based rotation.
	File string
}

// New builds a zerolog.Logger for the given options.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Init installs the logger as the global zerolog logger and returns it.
func Init(opts Options) zerolog.Logger {
	l := New(opts)
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}
