package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	"github.com/couchcryptid/nws-dwml-etl/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/couchcryptid/nws-dwml-etl/internal/pipeline")

// Fetcher downloads the raw DWML document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Flattener converts a DWML document into a wide table.
type Flattener interface {
	Flatten(ctx context.Context, data []byte, meta domain.RunMeta) (*domain.Table, error)
}

// ObjectStore persists run artifacts and returns their URIs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	CheckReadiness(ctx context.Context) error
}

// Notifier announces completed runs. Failures never fail the run.
type Notifier interface {
	Notify(ctx context.Context, result domain.RunResult) error
}

// Pipeline orchestrates one fetch-flatten-persist run per invocation.
type Pipeline struct {
	fetcher   Fetcher
	flattener Flattener
	store     ObjectStore
	notifier  Notifier
	cfg       config.ScrapeConfig
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
// Pass a nil notifier to disable run notifications.
func New(cfg config.ScrapeConfig, f Fetcher, fl Flattener, s ObjectStore, n Notifier, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		flattener: fl,
		store:     s,
		notifier:  n,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the artifact store is reachable.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.store.CheckReadiness(ctx)
}

// RunOnce fetches the forecast, flattens it, and uploads the raw document
// followed by the CSV. Both artifacts share one run stamp. Nothing is uploaded
// unless flattening succeeds; a failed CSV upload leaves the raw object behind.
func (p *Pipeline) RunOnce(ctx context.Context) (result domain.RunResult, err error) {
	scrapeTime := domain.ScrapeInstant()
	stamp := domain.RunStamp(scrapeTime)
	start := time.Now()

	ctx, span := tracer.Start(ctx, "scrape-dwml")
	span.SetAttributes(attribute.String("run.stamp", stamp))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	defer func() {
		kind := domain.ErrorKind(err)
		p.metrics.RunsTotal.WithLabelValues(observability.Outcome(kind)).Inc()
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			p.logger.Error("run failed", "stamp", stamp, "kind", kind, "error", err)
		}
	}()

	fetchStart := time.Now()
	raw, err := p.fetcher.Fetch(ctx)
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		return domain.RunResult{}, err
	}

	table, err := p.flattener.Flatten(ctx, raw, domain.RunMeta{
		ScrapeTime: scrapeTime,
		Lat:        p.cfg.Lat,
		Lon:        p.cfg.Lon,
	})
	if err != nil {
		return domain.RunResult{}, err
	}

	var csvBuf bytes.Buffer
	if err := table.WriteCSV(&csvBuf); err != nil {
		return domain.RunResult{}, fmt.Errorf("serialize table: %w", err)
	}

	rawURI, err := p.store.Put(ctx, domain.RawObjectKey(p.cfg.RawPrefix, stamp), raw, domain.ContentTypeXML)
	if err != nil {
		return domain.RunResult{}, err
	}
	p.metrics.UploadBytes.WithLabelValues("raw").Add(float64(len(raw)))

	csvURI, err := p.store.Put(ctx, domain.CSVObjectKey(p.cfg.CSVPrefix, stamp), csvBuf.Bytes(), domain.ContentTypeCSV)
	if err != nil {
		return domain.RunResult{}, err
	}
	p.metrics.UploadBytes.WithLabelValues("csv").Add(float64(csvBuf.Len()))

	result = domain.RunResult{
		RawXML:     rawURI,
		PerRunCSV:  csvURI,
		Rows:       table.Len(),
		Stamp:      stamp,
		ScrapeTime: scrapeTime,
		Columns:    table.Header(),
	}

	p.metrics.RowsFlattened.Add(float64(result.Rows))
	p.metrics.LastRunRows.Set(float64(result.Rows))
	p.metrics.LastSuccessUnixTime.Set(float64(scrapeTime.Unix()))
	span.SetAttributes(attribute.Int("run.rows", result.Rows))

	p.notify(ctx, result)

	p.logger.Info("run complete",
		"stamp", stamp,
		"rows", result.Rows,
		"columns", len(result.Columns),
		"raw_xml", rawURI,
		"per_run_csv", csvURI,
		"duration", time.Since(start),
	)
	return result, nil
}

func (p *Pipeline) notify(ctx context.Context, result domain.RunResult) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, result); err != nil {
		p.metrics.NotifyErrors.Inc()
		p.logger.Warn("run notification failed", "stamp", result.Stamp, "error", err)
	}
}
