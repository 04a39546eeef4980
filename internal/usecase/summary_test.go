package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"CosmoPulse/internal/services/archetype"
)

func TestSummaryPlaceholderOnEmptyCache(t *testing.T) {
	p := &fakeProvider{err: errors.New("ephemeris down")}
	cache := NewTransitCache(p, nopMetrics{}, testLogger(t),
		WithRepairTimeout(50*time.Millisecond))
	s := NewSummaryFormatter(cache, archetype.New(), nil, time.Minute)

	if got := s.Summary(context.Background()); got != SummaryPlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestFormatSummaryPrimaryProjection(t *testing.T) {
	snap := testSnapshot()
	text := FormatSummary(snap, archetype.New())

	header := "Current transits (tropical) at " + snap.ComputedAt.UTC().Format("2006-01-02 15:04 MST")
	if !strings.HasPrefix(text, header) {
		t.Fatalf("unexpected header in %q", text)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(text, "The Creative") {
		t.Fatalf("expected gate 1 theme, got %q", text)
	}
	if !strings.Contains(text, "(R)") {
		t.Fatalf("expected retrograde marker, got %q", text)
	}
	// Sun is direct; its row must not carry the marker
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "Sun") && strings.Contains(line, "(R)") {
			t.Fatalf("direct body marked retrograde: %q", line)
		}
	}
}

func TestFormatSummaryUnknownGateTheme(t *testing.T) {
	snap := testSnapshot()
	snap.Projections["tropical"][0].Gate = 99

	text := FormatSummary(snap, archetype.New())
	if !strings.Contains(text, "gate 99") {
		t.Fatalf("expected gate 99 row, got %q", text)
	}
	if !strings.Contains(text, "  -") {
		t.Fatalf("expected absent-theme marker, got %q", text)
	}
}

func TestSummaryStableAcrossCalls(t *testing.T) {
	p := &fakeProvider{set: testProjections()}
	cache := NewTransitCache(p, nopMetrics{}, testLogger(t))
	if err := cache.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer cache.Stop()

	s := NewSummaryFormatter(cache, archetype.New(), nil, time.Minute)
	first := s.Summary(context.Background())
	second := s.Summary(context.Background())
	if first != second {
		t.Fatalf("summary changed without a refresh")
	}
	if first == SummaryPlaceholder {
		t.Fatalf("expected a real report")
	}
}
