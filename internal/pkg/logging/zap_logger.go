package logging

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger and exposes it through slog. The zap logger is
// returned as well so transport middleware can log through it directly.
func New(production bool) (*slog.Logger, *zap.Logger, error) {
	var (
		zapLogger *zap.Logger
		err       error
	)

	if production {
		zapLogger, err = zap.NewProduction()
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger, err = config.Build()
	}
	if err != nil {
		return nil, nil, err
	}

	return slog.New(zapslog.NewHandler(zapLogger.Core())), zapLogger, nil
}
