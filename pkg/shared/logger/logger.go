package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/pkg/shared/config"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "SECRETSCOUT_LOG_LEVEL"

func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return newLogger(cfg, name, os.Stdout)
}

func newLogger(cfg *config.Config, name string, output io.Writer) hclog.Logger {
	var logLevel hclog.Level

	// env variable has the first priority
	if logLevelEnv := os.Getenv(LogLevelEnv); logLevelEnv != "" {
		logLevel = getLogLevel(strings.ToUpper(logLevelEnv))
	} else if cfg != nil && cfg.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(cfg.Logger.Level))
	} else {
		logLevel = hclog.Info
	}

	opts := &hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      output,
		Level:       logLevel,
	}
	if cfg != nil {
		opts.JSONFormat = cfg.Logger.JSONFormat
		opts.IncludeLocation = cfg.Logger.IncludeLocation
	}

	return hclog.New(opts)
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
