// Package logger builds the zap logger used by the twig CLI.
//
// Output is meant for humans: a console encoder with ISO8601 timestamps,
// written to stderr so stdout stays reserved for command results.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Verbose enables debug records. Otherwise only warnings and errors are
	// written.
	Verbose bool
	// Output receives log records. Defaults to os.Stderr.
	Output io.Writer
}

// New returns a ready-to-use logger.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	if opts.Verbose {
		level.SetLevel(zap.DebugLevel)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), level)
	return zap.New(core, zap.AddStacktrace(zap.NewAtomicLevelAt(zap.FatalLevel)))
}
