package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// New builds a logger writing to stderr. Level is one of debug, info, warn,
// error; encoding is json or console. Empty values fall back to info and
// console.
func New(level, encoding string) (*zap.Logger, error) {
	config, err := Config(level, encoding)
	if err != nil {
		return nil, err
	}
	return config.Build()
}

// Config returns the zap configuration New builds from.
func Config(level, encoding string) (zap.Config, error) {
	zapLevel := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("logging: level %q: %w", level, err)
		}
		zapLevel = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	switch strings.ToLower(encoding) {
	case "", EncodingConsole:
		encoding = EncodingConsole
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	case EncodingJSON:
		encoding = EncodingJSON
	default:
		return zap.Config{}, fmt.Errorf("logging: unknown encoding %q", encoding)
	}

	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}, nil
}
