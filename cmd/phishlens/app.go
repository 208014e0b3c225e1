package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/aleister1102/phishlens/internal/assess"
	"github.com/aleister1102/phishlens/internal/config"
	"github.com/aleister1102/phishlens/internal/history"
	"github.com/aleister1102/phishlens/internal/metrics"
	"github.com/aleister1102/phishlens/internal/scoring"
)

type application struct {
	cfg     *config.GlobalConfig
	flags   AppFlags
	logger  zerolog.Logger
	metrics *metrics.Metrics
	holder  *scoring.Holder
	loader  scoring.Loader
	stdout  io.Writer
}

func newApplication(cfg *config.GlobalConfig, flags AppFlags, logger zerolog.Logger) *application {
	return &application{
		cfg:     cfg,
		flags:   flags,
		logger:  logger,
		metrics: metrics.NewMetrics(),
		holder:  scoring.NewHolder(),
		stdout:  os.Stdout,
	}
}

func (a *application) run(ctx context.Context) error {
	switch a.flags.Mode {
	case ModeScan:
		return a.runScan(ctx)
	case ModeServe:
		return a.runServe(ctx)
	case ModeExport:
		return a.runExport(ctx)
	case ModeToken:
		return a.runToken()
	default:
		return fmt.Errorf("unknown mode %q", a.flags.Mode)
	}
}

// initScorer fills the holder from scorer_config. A linear model that fails to load
// leaves the holder empty so callers fall back to the prior.
func (a *application) initScorer() error {
	sc := a.cfg.ScorerConfig

	switch sc.Type {
	case config.ScorerTypeLinear:
		a.loader = scoring.LinearModelLoader(sc.ModelPath)
		if err := a.holder.Load(a.loader); err != nil {
			a.logger.Error().Err(err).Str("model_path", sc.ModelPath).Msg("Failed to load model, scoring falls back to the prior")
			return nil
		}
	case config.ScorerTypeRemote:
		remote, err := scoring.NewRemoteScorer(scoring.RemoteConfig{
			Endpoint:               sc.Endpoint,
			APIKey:                 sc.APIKey,
			Timeout:                sc.Timeout(),
			MaxConsecutiveFailures: sc.BreakerFailures,
			OpenTimeout:            sc.BreakerOpen(),
		}, a.logger)
		if err != nil {
			return err
		}
		a.holder.Set(remote)
	case config.ScorerTypeStatic:
		a.holder.Set(scoring.NewStatic(sc.StaticProbability))
	default:
		a.logger.Warn().Msg("No scorer configured, every URL gets the prior probability")
		return nil
	}

	a.logger.Info().Str("scorer", a.holder.Name()).Msg("Scorer ready")
	return nil
}

// reloadScorer re-reads the linear model file. Other scorer types have nothing to
// reload.
func (a *application) reloadScorer() {
	if a.loader == nil {
		a.logger.Info().Msg("Reload requested but scorer has no model file")
		return
	}
	if err := a.holder.Load(a.loader); err != nil {
		a.logger.Error().Err(err).Str("scorer", a.holder.Name()).Msg("Model reload failed, keeping current scorer")
		return
	}
	a.logger.Info().Str("scorer", a.holder.Name()).Msg("Model reloaded")
}

func (a *application) newPipeline() *assess.Pipeline {
	return assess.NewPipelineBuilder(a.logger).
		WithScorer(a.holder).
		WithMetrics(a.metrics).
		WithWorkers(a.cfg.BatchConfig.Workers).
		Build()
}

// openHistory returns nil when history is disabled.
func (a *application) openHistory() (*history.Store, error) {
	if !a.cfg.StorageConfig.HistoryEnabled {
		return nil, nil
	}
	return history.Open(a.cfg.StorageConfig.SQLitePath, a.logger)
}
