// Package logging sets up the run logger: colored output on the console, every message in
// combined.log, and errors in error.log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// Logger is the run logger. Close flushes and closes the log files.
type Logger struct {
	*logrus.Logger
	files []*os.File
}

// Options configures New.
type Options struct {
	// Level is a logrus level name such as "debug" or "info".
	Level string

	// Dir is where combined.log and error.log are written. If empty, nothing is written to files.
	Dir string

	// Console is where colored output goes. Defaults to os.Stdout.
	Console io.Writer

	// ForceColors forces colors on the console even if it is not a terminal.
	ForceColors bool
}

// New creates the run logger.
func New(opts Options) (*Logger, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	l := &Logger{Logger: logrus.New()}
	l.SetLevel(level)
	l.SetOutput(console)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		ForceColors:     opts.ForceColors,
	})

	if opts.Dir == "" {
		return l, nil
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", opts.Dir, err)
	}
	for _, spec := range []struct {
		name   string
		levels []logrus.Level
	}{
		{"combined.log", logrus.AllLevels},
		{"error.log", levelsUpTo(logrus.ErrorLevel)},
	} {
		hook, file, err := newFileHook(filepath.Join(opts.Dir, spec.name), spec.levels)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		l.files = append(l.files, file)
		l.AddHook(hook)
	}
	return l, nil
}

// Close closes the log files.
func (l *Logger) Close() error {
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}

// Printf makes Logger usable as a framework.Logger; messages are logged at debug level.
func (l *Logger) Printf(message string, args ...interface{}) {
	l.Debugf(message, args...)
}

func levelsUpTo(max logrus.Level) []logrus.Level {
	var ret []logrus.Level
	for _, level := range logrus.AllLevels {
		if level <= max {
			ret = append(ret, level)
		}
	}
	return ret
}

// fileHook writes entries synchronously to a file, without colors.
type fileHook struct {
	lock      sync.Mutex
	w         io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func newFileHook(path string, levels []logrus.Level) (*fileHook, *os.File, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open logfile %s: %w", path, err)
	}
	return &fileHook{
		w:      file,
		levels: levels,
		formatter: &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		},
	}, file, nil
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	_, err = h.w.Write(line)
	return err
}

func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}
