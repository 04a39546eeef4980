package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CosmoPulse/internal/domain/models"
	"CosmoPulse/internal/domain/repository"
	pkgkafka "CosmoPulse/pkg/kafka"
)

// ClickHouseArchive implements Archive for ClickHouse: one row per placement
// per snapshot.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates ClickHouse archive storage.
func NewClickHouseArchive(db *sql.DB, table string) repository.Archive {
	return &ClickHouseArchive{db: db, table: table}
}

func (a *ClickHouseArchive) Store(ctx context.Context, e *models.SnapshotEvent) error {
	if e == nil || len(e.Projections) == 0 {
		return nil
	}

	values := make([]string, 0, 64)
	args := make([]interface{}, 0, 64*6)
	computed := time.Unix(e.ComputedAt, 0)
	for _, cs := range models.ChartSystems {
		for _, p := range e.Projections[cs] {
			retro := uint8(0)
			if p.Retrograde {
				retro = 1
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, computed, string(cs), p.Body, uint8(p.Gate), uint8(p.Line), retro)
		}
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (computed_at, chart, body, gate, line, retrograde) VALUES %s",
		a.table, strings.Join(values, ","))
	_, err := a.db.ExecContext(ctx, q, args...)
	return err
}

func (a *ClickHouseArchive) Query(ctx context.Context, chart models.ChartSystem, from, to time.Time, limit int) ([]models.ArchivedPlacement, error) {
	q := fmt.Sprintf("SELECT computed_at, chart, body, gate, line, retrograde FROM %s WHERE chart = ? AND computed_at >= ? AND computed_at <= ? ORDER BY computed_at DESC LIMIT ?", a.table)
	rows, err := a.db.QueryContext(ctx, q, string(chart), from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ArchivedPlacement
	for rows.Next() {
		var p models.ArchivedPlacement
		var cs string
		var gate, line, retro uint8
		if err := rows.Scan(&p.ComputedAt, &cs, &p.Body, &gate, &line, &retro); err != nil {
			return nil, err
		}
		p.Chart = models.ChartSystem(cs)
		p.Gate = int(gate)
		p.Line = int(line)
		p.Retrograde = retro == 1
		out = append(out, p)
	}
	return out, rows.Err()
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return nil // Managed by pkg
}

// KafkaSnapshotPublisher implements Publisher for Kafka.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSnapshotPublisher creates Kafka publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, e *models.SnapshotEvent) error {
	// Key by computed_at so replays of one snapshot land in one partition.
	key := []byte(fmt.Sprintf("%d", e.ComputedAt))
	return p.producer.Publish(ctx, p.topic, key, e)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
