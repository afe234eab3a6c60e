// Package bootstrap provides dependency initialization for TrailerForge.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maauso/trailerforge/internal/config"
	"github.com/maauso/trailerforge/internal/export"
	"github.com/maauso/trailerforge/internal/generation"
	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/presenter"
	"github.com/maauso/trailerforge/internal/storage"
)

// Dependencies holds all initialized dependencies for one session.
type Dependencies struct {
	Generator  *generation.HTTPClient
	Controller *pipeline.Controller
	Presenter  *presenter.Presenter
	Exporter   *export.Exporter
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Initialize export storage
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize generation client. No timeout and no retries.
	client, err := generation.NewClient(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("create generation client: %w", err)
	}
	logger.Info("generation service configured",
		slog.String("endpoint", client.Endpoint()),
		slog.String("media_base", cfg.MediaBaseURL()),
	)

	p, err := presenter.New(cfg.MediaBaseURL())
	if err != nil {
		return nil, fmt.Errorf("create presenter: %w", err)
	}

	controller := pipeline.NewController(client,
		pipeline.WithLogger(logger),
		pipeline.WithObserver(logSnapshot(logger)),
	)

	exporter := export.NewExporter(store,
		export.WithFormat(export.Format(cfg.ExportFormat)),
		export.WithMediaBase(cfg.MediaBaseURL()),
		export.WithLogger(logger),
	)

	return &Dependencies{
		Generator:  client,
		Controller: controller,
		Presenter:  p,
		Exporter:   exporter,
	}, nil
}

// logSnapshot returns an observer that records every session change.
func logSnapshot(logger *slog.Logger) pipeline.Observer {
	return func(s pipeline.Snapshot) {
		attrs := []any{
			slog.String("state", string(s.State)),
			slog.Bool("has_artifact", s.HasArtifact),
		}
		if s.Notice != "" {
			attrs = append(attrs, slog.String("notice", s.Notice))
		}
		if s.Result != nil {
			attrs = append(attrs, slog.String("kind", string(s.Result.Kind)))
		}
		logger.Debug("session updated", attrs...)
	}
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 export storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.ExportDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local export storage configured",
		slog.String("export_dir", localStore.Dir()),
	)
	return localStore, nil
}
