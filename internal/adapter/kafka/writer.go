// Package kafka publishes converted waveform records to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/config"
	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// Writer produces converted records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg config.PublishConfig, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a waveform record and writes it to the topic, keyed
// by the source filename so records from the same file land in order.
func (w *Writer) Publish(ctx context.Context, rec *v2.WaveformRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a waveform record into a Kafka message.
func serializeToMessage(rec *v2.WaveformRecord) (kafkago.Message, error) {
	doc := struct {
		Metadata     map[string]any `json:"metadata"`
		Time         []float64      `json:"time"`
		Acceleration []float64      `json:"acceleration"`
		Velocity     []float64      `json:"velocity,omitempty"`
		Displacement []float64      `json:"displacement,omitempty"`
	}{
		Metadata:     rec.Metadata.Flatten(),
		Time:         rec.Time,
		Acceleration: rec.Acceleration,
		Velocity:     rec.Velocity,
		Displacement: rec.Displacement,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize waveform record: %w", err)
	}

	channel := 0
	if rec.Metadata.ChannelNumber != nil {
		channel = *rec.Metadata.ChannelNumber
	}

	return kafkago.Message{
		Key:   []byte(rec.Metadata.Filename),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "channel", Value: []byte(strconv.Itoa(channel))},
			{Key: "samples", Value: []byte(strconv.Itoa(len(rec.Acceleration)))},
		},
	}, nil
}
