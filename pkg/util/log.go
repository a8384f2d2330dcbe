package util

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// encoderConfig is shared by every logger so stdout and file lines look the same.
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func NewLogger() (*zap.Logger, error) {
	return newLogger(zapcore.AddSync(os.Stdout)), nil
}

// NewLoggerWithFile writes JSON to stdout and to logPath.
// An empty logPath falls back to NewLogger.
func NewLoggerWithFile(logPath string) (*zap.Logger, error) {
	if logPath == "" {
		return NewLogger()
	}
	file, err := openLogFile(logPath)
	if err != nil {
		return nil, err
	}
	return newLogger(zapcore.AddSync(os.Stdout), file), nil
}

// NewFileOnlyLogger writes only to logPath. Interactive binaries use it so log lines
// do not interleave with terminal output. An empty logPath yields a no-op logger.
func NewFileOnlyLogger(logPath string) (*zap.Logger, error) {
	if logPath == "" {
		return zap.NewNop(), nil
	}
	file, err := openLogFile(logPath)
	if err != nil {
		return nil, err
	}
	return newLogger(file), nil
}

func openLogFile(logPath string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

func newLogger(sinks ...zapcore.WriteSyncer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(encoderConfig())
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		cores = append(cores, zapcore.NewCore(enc.Clone(), sink, zap.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
