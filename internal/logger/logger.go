// Package logger owns the process-wide zap logger: a colored console core
// and, when a log file is configured, a rotating file core.
//
// Log and Sugar are no-op loggers until Setup runs, so simulation packages
// may log from tests without any setup.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger.
	Log = zap.NewNop()
	// Sugar wraps Log for printf-style calls.
	Sugar = Log.Sugar()
)

// Rotation configures the rotating log file.
type Rotation struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps five compressed 20 MB files for two weeks.
func DefaultRotation(path string) Rotation {
	return Rotation{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options selects where Setup sends log entries.
type Options struct {
	Level   string // zap level name; empty means info
	Console bool
	File    Rotation // no file when Path is empty
}

// Init logs to the console, and to logFile as well when it is set.
func Init(level, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultRotation(logFile)
	}
	return Setup(opts)
}

// Setup replaces Log and Sugar. With no outputs selected both become no-ops.
func Setup(opts Options) error {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := encoder(zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc := encoder(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	}
	Sugar = Log.Sugar()
	return nil
}

func encoder(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

func parseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return lvl, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// Named returns a child of the global logger tagged with a component name.
// Objects built before Setup keep the no-op logger they were given.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}
