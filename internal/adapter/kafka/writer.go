package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// EventType is the event_type header of run notifications.
const EventType = "dwml_run_completed"

// Notifier publishes a message for every completed scrape run.
// It implements pipeline.Notifier.
type Notifier struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the configured run topic.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  1,
	}
	return &Notifier{writer: w, logger: logger}
}

// RunCompleted is the payload of a run notification.
type RunCompleted struct {
	Stamp      string    `json:"stamp"`
	ScrapeTime time.Time `json:"scrape_time"`
	RawXML     string    `json:"raw_xml"`
	PerRunCSV  string    `json:"per_run_csv"`
	Rows       int       `json:"rows_this_run"`
	Columns    []string  `json:"columns"`
}

// Notify publishes the result of a successful run.
func (n *Notifier) Notify(ctx context.Context, result domain.RunResult) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish run notification: %w", err)
	}
	n.logger.Debug("run notification published", "topic", n.writer.Topic, "stamp", result.Stamp)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeToMessage marshals a run result into a Kafka message keyed by its stamp.
func serializeToMessage(result domain.RunResult) (kafkago.Message, error) {
	data, err := json.Marshal(RunCompleted{
		Stamp:      result.Stamp,
		ScrapeTime: result.ScrapeTime.UTC(),
		RawXML:     result.RawXML,
		PerRunCSV:  result.PerRunCSV,
		Rows:       result.Rows,
		Columns:    result.Columns,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.Stamp),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "scrape_time", Value: []byte(result.ScrapeTime.UTC().Format(time.RFC3339))},
		},
	}, nil
}
