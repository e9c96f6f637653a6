package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() domain.RunResult {
	return domain.RunResult{
		RawXML:     "gs://wx/nws_raw/dwml_20250820T123105Z.xml",
		PerRunCSV:  "gs://wx/nws_flat/flat_20250820T123105Z.csv",
		Rows:       4,
		Stamp:      "20250820T123105Z",
		ScrapeTime: time.Date(2025, time.August, 20, 12, 31, 5, 0, time.UTC),
		Columns:    []string{"scrape_time_utc", "location_lat", "location_lon", "forecast_time_utc", "temp_F"},
	}
}

func TestSerializeToMessage(t *testing.T) {
	result := testResult()

	msg, err := serializeToMessage(result)
	require.NoError(t, err)

	assert.Equal(t, []byte("20250820T123105Z"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventType), msg.Headers[0].Value)
	assert.Equal(t, "scrape_time", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-08-20T12:31:05Z"), msg.Headers[1].Value)

	var got RunCompleted
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, result.Stamp, got.Stamp)
	assert.True(t, result.ScrapeTime.Equal(got.ScrapeTime))
	assert.Equal(t, result.RawXML, got.RawXML)
	assert.Equal(t, result.PerRunCSV, got.PerRunCSV)
	assert.Equal(t, 4, got.Rows)
	assert.Equal(t, result.Columns, got.Columns)
}

func TestSerializeToMessage_FieldNames(t *testing.T) {
	msg, err := serializeToMessage(testResult())
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"raw_xml":"gs://wx/nws_raw/dwml_20250820T123105Z.xml"`)
	assert.Contains(t, string(msg.Value), `"rows_this_run":4`)
}

func TestNewNotifier(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers: []string{"broker1:9092", "broker2:9092"},
		KafkaTopic:   "nws-dwml-runs",
	}

	n := NewNotifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = n.Close() })

	assert.Equal(t, "nws-dwml-runs", n.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, n.writer.RequiredAcks)
	assert.Equal(t, "broker1:9092,broker2:9092", n.writer.Addr.String())
}
