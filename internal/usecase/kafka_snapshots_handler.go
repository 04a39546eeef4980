package usecase

import (
	"context"
	"encoding/json"
	"time"

	"CosmoPulse/internal/domain/models"
	drepo "CosmoPulse/internal/domain/repository"
	pkgkafka "CosmoPulse/pkg/kafka"
)

// KafkaSnapshotsHandler consumes snapshot events and appends them to the
// archive.
type KafkaSnapshotsHandler struct {
	topic   string
	archive drepo.Archive
	metrics drepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, archive drepo.Archive, metrics drepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var e models.SnapshotEvent
	if err := json.Unmarshal(b, &e); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	// E2E latency from snapshot commit to archive ingest (approx)
	h.metrics.RecordLatency("archive_e2e_seconds", time.Since(time.Unix(e.ComputedAt, 0)).Seconds())

	start := time.Now()
	err := h.archive.Store(ctx, &e)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
