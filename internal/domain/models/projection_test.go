package models

import (
	"testing"
	"time"
)

func TestNormalizeChartSystem(t *testing.T) {
	if got := NormalizeChartSystem("sidereal"); got != ChartSidereal {
		t.Fatalf("got %s", got)
	}
	if got := NormalizeChartSystem(""); got != ChartTropical {
		t.Fatalf("empty should default to tropical, got %s", got)
	}
	if got := NormalizeChartSystem("vedic"); got != ChartTropical {
		t.Fatalf("unknown should default to tropical, got %s", got)
	}
}

func TestSnapshotStale(t *testing.T) {
	now := time.Now()
	s := &TransitSnapshot{ComputedAt: now, ExpiresAt: now.Add(time.Hour)}
	if s.Stale(now) {
		t.Fatalf("fresh snapshot reported stale")
	}
	if s.Stale(now.Add(time.Hour)) {
		t.Fatalf("snapshot at its boundary is still valid")
	}
	if !s.Stale(now.Add(time.Hour + time.Second)) {
		t.Fatalf("expired snapshot reported fresh")
	}
}
