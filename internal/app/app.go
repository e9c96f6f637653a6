// Package app wires configuration into a ready-to-run scrape pipeline. It is
// shared by the long-running service and the Cloud Functions entry point.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/nws-dwml-etl/internal/adapter/gcs"
	kafkaadapter "github.com/couchcryptid/nws-dwml-etl/internal/adapter/kafka"
	"github.com/couchcryptid/nws-dwml-etl/internal/adapter/nws"
	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/observability"
	"github.com/couchcryptid/nws-dwml-etl/internal/pipeline"
)

// App owns the pipeline and the adapters that need closing.
type App struct {
	Pipeline *pipeline.Pipeline

	store    *gcs.Store
	notifier *kafkaadapter.Notifier
}

// New builds the pipeline stages from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	store, err := gcs.NewStore(ctx, cfg.Scrape, logger)
	if err != nil {
		return nil, err
	}

	a := &App{store: store}

	// Keep the interface nil when disabled so the pipeline skips notification.
	var notifier pipeline.Notifier
	if cfg.NotifierEnabled() {
		a.notifier = kafkaadapter.NewNotifier(cfg, logger)
		notifier = a.notifier
		logger.Info("run notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("run notifications disabled")
	}

	fetcher := nws.NewFetcher(cfg.Scrape, logger)
	flattener := pipeline.NewFlattener(logger)

	a.Pipeline = pipeline.New(cfg.Scrape, fetcher, flattener, store, notifier, logger, metrics)

	logger.Info("pipeline configured",
		"forecast_url", fetcher.URL(),
		"bucket", cfg.Scrape.Bucket,
		"raw_prefix", cfg.Scrape.RawPrefix,
		"csv_prefix", cfg.Scrape.CSVPrefix,
	)
	return a, nil
}

// Close releases the storage client and the notifier, if any.
func (a *App) Close() error {
	var errs []error
	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
