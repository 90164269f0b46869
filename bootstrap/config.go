package bootstrap

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"argus/config"
	"argus/core"
)

// InitLogger builds the colored console logger the service runs with
func InitLogger() (*zap.Logger, *zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	logCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapcore.InfoLevel,
	)

	logger := zap.New(logCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// InitConfig loads the service configuration
func InitConfig(sugar *zap.SugaredLogger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	sugar.Infof("Configuration loaded (engine workers=%d, run interval=%v)",
		cfg.Engine.Workers, cfg.Engine.RunInterval)
	return cfg, nil
}

// InitPolicy loads the detection policy, falling back to the built-in
// defaults when no policy file is configured
func InitPolicy(cfg *config.Config, sugar *zap.SugaredLogger) (*core.Policy, error) {
	if cfg.DataPaths.PolicyPath == "" {
		sugar.Info("No policy file configured, using built-in defaults")
		return core.DefaultPolicy(), nil
	}
	policy, err := core.LoadPolicy(cfg.DataPaths.PolicyPath)
	if err != nil {
		return nil, err
	}
	sugar.Infof("Detection policy loaded from %s", cfg.DataPaths.PolicyPath)
	return policy, nil
}
