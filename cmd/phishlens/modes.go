package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/phishlens/internal/api"
	"github.com/aleister1102/phishlens/internal/assess"
	"github.com/aleister1102/phishlens/internal/auth"
	"github.com/aleister1102/phishlens/internal/batch"
	"github.com/aleister1102/phishlens/internal/common"
	"github.com/aleister1102/phishlens/internal/export"
	"github.com/aleister1102/phishlens/internal/history"
	"github.com/aleister1102/phishlens/internal/policy"
	"github.com/aleister1102/phishlens/internal/resources"
)

const (
	defaultScanSubject = "cli"
	shutdownTimeout    = 10 * time.Second
)

func (a *application) targets() ([]string, error) {
	if a.flags.URL != "" {
		return []string{a.flags.URL}, nil
	}
	return common.ReadURLList(a.flags.URLListFile, a.logger)
}

func (a *application) runScan(ctx context.Context) error {
	urls, err := a.targets()
	if err != nil {
		return err
	}
	if err := a.initScorer(); err != nil {
		return err
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	out, closeOut, err := a.openOutput(a.flags.OutputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	subject := a.flags.Subject
	if subject == "" {
		subject = defaultScanSubject
	}

	pipeline := a.newPipeline()
	enc := json.NewEncoder(out)
	counts := map[policy.Prediction]int{}

	stats, err := batch.NewChunker(a.cfg.BatchConfig.ChunkSize, a.logger).Process(ctx, urls,
		func(ctx context.Context, chunk []string, _ int) error {
			results, scanErr := pipeline.ScoreBatch(ctx, chunk)
			for _, r := range results {
				if r.URL == "" && scanErr != nil {
					continue
				}
				if err := enc.Encode(r); err != nil {
					return common.WrapError(err, "failed to write scan result")
				}
				counts[r.Prediction]++
				a.saveHistory(ctx, store, subject, r)
			}
			return scanErr
		})

	a.logger.Info().
		Int("total", len(urls)).
		Int("scored", stats.Processed).
		Int("phishing", counts[policy.Phishing]).
		Int("suspicious", counts[policy.Suspicious]).
		Int("legitimate", counts[policy.Legitimate]).
		Dur("duration", stats.Duration).
		Msg("Scan finished")
	return err
}

func (a *application) saveHistory(ctx context.Context, store *history.Store, subject string, r assess.Assessment) {
	if store == nil {
		return
	}
	if _, err := store.Save(context.WithoutCancel(ctx), history.FromAssessment(subject, r)); err != nil {
		a.metrics.IncHistoryWriteError()
		a.logger.Error().Err(err).Str("url", r.URL).Msg("Failed to store scan result")
	}
}

func (a *application) runServe(ctx context.Context) error {
	if err := a.initScorer(); err != nil {
		return err
	}

	deps := api.Deps{
		Pipeline: a.newPipeline(),
		Scorer:   a.holder,
		Metrics:  a.metrics,
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		deps.History = store
	}

	if a.cfg.AuthConfig.Enabled {
		issuer, err := auth.NewIssuer(a.cfg.AuthConfig.Secret, a.cfg.AuthConfig.Issuer, a.cfg.AuthConfig.TokenTTL())
		if err != nil {
			return err
		}
		deps.Issuer = issuer
	}

	monitor := resources.NewMonitor(resources.MonitorConfig{
		CheckInterval: a.cfg.ResourceConfig.CheckInterval(),
		MemoryWarnMB:  a.cfg.ResourceConfig.MemoryWarnMB,
		CPUWindow:     resources.DefaultMonitorConfig().CPUWindow,
	}, a.logger)
	monitor.Start(ctx)
	defer monitor.Stop()
	deps.Monitor = monitor

	server, err := api.NewServer(a.cfg.ServerConfig, deps, a.logger)
	if err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(a.cfg.ServerConfig.ListenAddr)
	}()

	for {
		select {
		case err := <-listenErr:
			return err
		case <-hup:
			a.reloadScorer()
		case <-ctx.Done():
			a.logger.Info().Msg("Shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return common.WrapError(err, "graceful shutdown failed")
			}
			return nil
		}
	}
}

func (a *application) runExport(ctx context.Context) error {
	urls, err := a.targets()
	if err != nil {
		return err
	}

	path := a.flags.OutputFile
	if path == "" {
		path = a.cfg.StorageConfig.ExportPath
	}
	if path == "" {
		return common.NewValidationError("output", path, "export needs -output or storage_config.export_path")
	}

	writer, err := export.NewParquetWriter(a.cfg.StorageConfig.CompressionCodec, a.logger)
	if err != nil {
		return err
	}

	vectors := a.newPipeline().ExtractBatch(ctx, urls)
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := writer.WriteVectors(path, urls, vectors)
	if err != nil {
		return err
	}
	a.logger.Info().Int("rows", n).Str("path", path).Msg("Feature export finished")
	return nil
}

func (a *application) runToken() error {
	ac := a.cfg.AuthConfig
	if ac.Secret == "" {
		return common.NewConfigurationError("auth_config", "secret", "a signing secret is required to issue tokens")
	}

	issuer, err := auth.NewIssuer(ac.Secret, ac.Issuer, ac.TokenTTL())
	if err != nil {
		return err
	}
	token, err := issuer.Issue(a.flags.Subject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, token)
	return err
}

// openOutput returns a.stdout when path is empty.
func (a *application) openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return a.stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, common.WrapError(err, "failed to create output file")
	}
	return f, func() { _ = f.Close() }, nil
}
