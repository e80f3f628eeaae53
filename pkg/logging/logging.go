// Package logging configures the application's zap logger.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger is the global logger instance
var Logger *zap.Logger

// Options controls logger construction.
type Options struct {
	Debug      bool   // Development config at debug level instead of production JSON.
	Verbose    bool   // Production config at info level; warnings and errors only otherwise.
	LogFile    string // Optional extra sink; log lines go to stderr and to this file.
	AppName    string
	AppVersion string
	RunID      string // Correlates the lines of one run; generated when empty.
}

// Setup builds the logger, stores it in Logger and replaces the zap globals.
func Setup(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		if !opts.Verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
	}

	if opts.LogFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opts.LogFile)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, opts.LogFile)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    opts.AppName,
		"appVersion": opts.AppVersion,
		"runID":      runID,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return Logger, fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return Logger, nil
}
