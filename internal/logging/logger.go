package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It writes to stderr until Init redirects it.
var Log = logrus.New()

// Options control where and how the logger writes
type Options struct {
	File   string // log file path; empty keeps the current output
	Level  string // debug, info, warn, error
	Format string // text or json
}

// Init configures the global logger. LOG_LEVEL and LOG_FORMAT override the
// configured values. The returned closer releases the log file.
func Init(opts Options) (io.Closer, error) {
	level := opts.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	format := opts.Format
	if env := os.Getenv("LOG_FORMAT"); env != "" {
		format = env
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		// The log file is read with less/tail, no colors
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	if opts.File == "" {
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return io.NopCloser(nil), fmt.Errorf("failed to open log file: %w", err)
	}
	Log.SetOutput(f)
	return f, nil
}

// Component returns an entry tagged with the component name
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
