package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Scrape: config.ScrapeConfig{
			Bucket:          "test-bucket",
			RawPrefix:       "nws_raw/",
			CSVPrefix:       "nws_flat/",
			Lat:             41.94,
			Lon:             -72.685,
			FcstType:        "digitalDWML",
			UserAgent:       "nws-dwml-etl-test/1.0",
			ForecastBaseURL: "http://127.0.0.1:1/MapClick.php",
			FetchTimeout:    time.Second,
			StorageEndpoint: "http://127.0.0.1:1/storage/v1/",
		},
		KafkaTopic: "nws-dwml-runs",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WithoutNotifier(t *testing.T) {
	a, err := New(context.Background(), testConfig(), discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	assert.NotNil(t, a.Pipeline)
	assert.Nil(t, a.notifier)
	assert.NoError(t, a.Close())
}

func TestNew_WithNotifier(t *testing.T) {
	cfg := testConfig()
	cfg.KafkaBrokers = []string{"127.0.0.1:1"}

	a, err := New(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	assert.NotNil(t, a.notifier)
	assert.NoError(t, a.Close())
}
