package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until Init runs, so packages can log from tests.
var Log = zap.NewNop().Sugar()

// New builds a console logger writing to w. Colour level names are only
// meant for terminals.
func New(verbose bool, w zapcore.WriteSyncer, color bool) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.EncodeCaller = nil
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, level)).Sugar()
}

// Init replaces Log. With logPath the file is truncated and written without
// colours; otherwise logs go to stderr so stdout carries only links.
func Init(verbose bool, logPath string) {
	if logPath == "" {
		Log = New(verbose, zapcore.Lock(os.Stderr), true)
		return
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		Log = New(verbose, zapcore.Lock(os.Stderr), true)
		Log.Warnf("Cannot open log file %s, logging to stderr: %v", logPath, err)
		return
	}
	Log = New(verbose, zapcore.AddSync(f), false)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
