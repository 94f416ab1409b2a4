package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds the diagnostics logger. Level follows zapcore.ParseLevel
// (case-insensitive, empty means info). Format "json" selects the production
// encoder; anything else gets the colored console encoder.
func NewZap(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// Console play writes the event log to stdout; keep diagnostics off it.
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
