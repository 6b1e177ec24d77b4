// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"go.uber.org/zap"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/logging"
	"github.com/imamik/kspray/internal/orchestration"
	"github.com/imamik/kspray/internal/pipeline"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads kspray.yaml, or defaults when there is none.
	loadConfig = config.LoadOrDefault

	// newDependencies returns the external effects used by the installer.
	newDependencies = orchestration.DefaultDependencies

	// stdout receives user-facing output.
	stdout io.Writer = os.Stdout

	// logOutput receives the structured log.
	logOutput io.Writer = os.Stderr
)

// session is what every command needs once the configuration is loaded.
type session struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	log        logr.Logger
	metrics    *pipeline.MetricsObserver
}

func newSession(opts Options) (*session, error) {
	cfg, path, err := loadConfig(opts.ConfigPath)
	if err != nil {
		if opts.ConfigPath == "" {
			return nil, fmt.Errorf("%w\nRun 'kspray init' to create a configuration file", err)
		}
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	format := cfg.Logging.Format
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  level,
		Format: logging.Format(format),
		Output: logOutput,
	})
	if err != nil {
		return nil, err
	}
	log := logging.NewLogr(logger).WithValues("cluster", cfg.ClusterName)

	if path != "" {
		log.V(1).Info("configuration loaded", logging.KeyPath, path)
	} else {
		log.Info("no kspray.yaml found, using defaults")
	}

	return &session{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		log:        log,
	}, nil
}

// pipelineContext builds the step context with the log observer and, when a
// textfile is configured, the metrics observer.
func (s *session) pipelineContext(ctx context.Context) *pipeline.Context {
	pctx := pipeline.NewContext(logging.WithLogger(ctx, s.log), s.cfg)
	pctx.Log = s.log

	observers := pipeline.MultiObserver{pipeline.NewLogObserver(s.log)}
	if s.cfg.Metrics.Textfile != "" {
		s.metrics = pipeline.NewMetricsObserver(s.cfg.ClusterName)
		observers = append(observers, s.metrics)
	}
	pctx.Observer = observers
	return pctx
}

func (s *session) installer() *orchestration.Installer {
	return orchestration.NewInstaller(s.cfg, newDependencies())
}

// close flushes metrics and the log.
func (s *session) close() {
	if s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			s.log.Error(err, "failed to write metrics textfile", logging.KeyPath, s.cfg.Metrics.Textfile)
		}
	}
	_ = s.logger.Sync()
}
