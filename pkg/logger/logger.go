// Package logger provides structured, leveled logging for the cargo container
// filesystem and everything built on top of it: the core package, the
// background defragmenter and the CLI/HTTP server.
//
// Every logger carries a "service" field identifying the component that
// created it, so log lines from a single process can be attributed to their
// origin without threading a name through every call site.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger for the named service. In production the
// encoder is JSON so log lines are easy to ship and index; when CARGO_DEBUG
// is set the encoder switches to a human-readable console format and the
// level drops to debug, which is convenient while working on the CLI.
func New(service string) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	encoderCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	if _, debug := os.LookupEnv("CARGO_DEBUG"); debug {
		level = zapcore.DebugLevel
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	log := zap.New(core, zap.AddCaller()).Sugar().With("service", service)
	return log
}

// Nop returns a logger that discards everything. Useful in tests that want
// to exercise a component's logging call sites without asserting on output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
