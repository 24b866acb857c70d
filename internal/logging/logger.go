// Package logging wraps zap with the console setup used by the CLI.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger; call sites use the Infow/Debugw style.
type Logger struct {
	*zap.SugaredLogger
}

// logger construction options
type Options struct {
	Verbose bool
	JSON    bool
	Output  io.Writer // defaults to os.Stderr
}

// New returns a console logger at info level, or debug when verbose.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !opts.Verbose {
		encCfg.CallerKey = ""
	}

	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		if isTerminal(out) {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)

	var zopts []zap.Option
	if opts.Verbose {
		zopts = append(zopts, zap.AddCaller())
	}

	return FromCore(core, zopts...)
}

// FromCore wraps an existing zap core, mainly for tests using zaptest/observer.
func FromCore(core zapcore.Core, opts ...zap.Option) *Logger {
	return &Logger{zap.New(core, opts...).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// Named adds a component name to the logger.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}

// With adds structured key/value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.SugaredLogger.With(args...)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
