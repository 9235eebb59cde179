// Package logger is a thin printf-style facade over logrus shared by every
// binary in the repository.
//
// Callers log with a bracketed module prefix in the message, for example
//
//	logger.Info("[Tasks] task %s started", id)
//
// and use the X variants when the entry should carry a structured module field.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the process-wide logger.
type Options struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `json:"level" mapstructure:"level"`
	// Format is text or json. Default: text.
	Format string `json:"format" mapstructure:"format"`
	// OutputPath is an optional log file. Logs always go to stderr as well.
	OutputPath string `json:"output_path" mapstructure:"output-path"`
}

// NewOptions returns the default logging options.
func NewOptions() *Options {
	return &Options{
		Level:  "info",
		Format: FormatText,
	}
}

// Validate checks the logging options.
func (o *Options) Validate() []error {
	var errs []error
	if _, err := logrus.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch o.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format: unsupported format %q", o.Format))
	}
	return errs
}

// AddFlags adds flags for the logger to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log output `LEVEL`: debug, info, warn or error.")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output `FORMAT`, support text or json format.")
	fs.StringVar(&o.OutputPath, "log.output-path", o.OutputPath, "Optional log file, logs are always written to stderr as well.")
}

var (
	mu   sync.Mutex
	std  = newStd()
	file *os.File
)

func newStd() *logrus.Logger {
	l := logrus.New()
	// stdout may belong to a stdio protocol transport, never write there.
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init applies opts to the process-wide logger.
func Init(opts *Options) error {
	if opts == nil {
		opts = NewOptions()
	}
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	std.SetLevel(level)
	if opts.Format == FormatJSON {
		std.SetFormatter(&logrus.JSONFormatter{})
	} else {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.OutputPath == "" {
		return nil
	}
	return openFile(opts.OutputPath)
}

// InitLog keeps the defaults and mirrors log output into path.
func InitLog(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return openFile(path)
}

// must be called with mu held.
func openFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	if file != nil {
		_ = file.Close()
	}
	file = f
	std.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// FlushLog syncs and closes the log file, if any.
func FlushLog() {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return
	}
	_ = file.Sync()
	_ = file.Close()
	file = nil
	std.SetOutput(os.Stderr)
}

// SetOutput redirects the logger. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetLevel changes the level at runtime.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// StdLogger exposes the underlying logrus logger for libraries that need an
// io.Writer or a *log.Logger.
func StdLogger() *logrus.Logger {
	return std
}

func Debug(format string, args ...any) { std.Debugf(format, args...) }
func Info(format string, args ...any)  { std.Infof(format, args...) }
func Warn(format string, args ...any)  { std.Warnf(format, args...) }
func Error(format string, args ...any) { std.Errorf(format, args...) }
func Fatal(format string, args ...any) { std.Fatalf(format, args...) }

func DebugX(module, format string, args ...any) {
	std.WithField("module", module).Debugf(format, args...)
}

func InfoX(module, format string, args ...any) {
	std.WithField("module", module).Infof(format, args...)
}

func WarnX(module, format string, args ...any) {
	std.WithField("module", module).Warnf(format, args...)
}

func ErrorX(module, format string, args ...any) {
	std.WithField("module", module).Errorf(format, args...)
}
