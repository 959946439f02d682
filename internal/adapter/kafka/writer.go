// Package kafka publishes parsed observation records to a sink topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
)

// Writer produces observation messages to a Kafka topic.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishTable serializes every record of an observation table and publishes
// them in a single WriteMessages call. Messages are keyed by station id so
// one station's records stay in order within a partition.
func (w *Writer) PublishTable(ctx context.Context, table domain.Table) error {
	if len(table.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(table.Records))
	for i, record := range table.Records {
		msg, err := serializeRecord(table.Combination, record)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	w.metrics.ExportMessages.Add(float64(len(msgs)))
	w.logger.Info("published observation records", "dataset", table.Combination.String(), "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRecord marshals one observation record into a Kafka message.
func serializeRecord(c domain.Combination, record domain.Record) (kafkago.Message, error) {
	payload := struct {
		Combination domain.Combination  `json:"combination"`
		StationID   int                 `json:"station_id"`
		Timestamp   time.Time           `json:"timestamp"`
		Values      map[string]*float64 `json:"values"`
	}{c, record.StationID, record.Timestamp, record.Values}

	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%d", record.StationID)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "parameter", Value: []byte(c.Parameter)},
			{Key: "resolution", Value: []byte(c.Resolution)},
			{Key: "period", Value: []byte(c.Period)},
			{Key: "observed_at", Value: []byte(record.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
