package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger
var Log *zap.Logger

func init() {
	Log = zap.Must(zap.NewProduction())
}

// Init rebuilds Log for the given environment. Development environments get
// the console encoder with debug level.
func Init(env string) {
	var cfg zap.Config
	if env == "development" || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		Log.Warn("logger config failed, keeping default", zap.Error(err))
		return
	}
	Log = l
}

// Sync flushes buffered entries
func Sync() {
	_ = Log.Sync()
}
