package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config se arma en cmd/authwire a partir de config.App.
type Config struct {
	Env     string // "prod" => JSON; cualquier otro valor => consola
	Level   string // vacío => info
	Service string
	Version string
}

func (c Config) json() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "prod")
}

func build(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.json() {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "ts"
		zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		zcfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	initial := map[string]any{}
	if cfg.Service != "" {
		initial["service"] = cfg.Service
	}
	if cfg.Version != "" {
		initial["version"] = cfg.Version
	}
	zcfg.InitialFields = initial

	return zcfg.Build(zap.AddCaller())
}

// parseLevel acepta los niveles de zapcore y el alias "warning".
func parseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		s = "warn"
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}
