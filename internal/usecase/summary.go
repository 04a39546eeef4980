package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CosmoPulse/internal/domain/models"
	dsvc "CosmoPulse/internal/domain/service"
	pkgcache "CosmoPulse/pkg/cache"
)

// SummaryPlaceholder is returned while no snapshot exists yet.
const SummaryPlaceholder = "Transit data is not available yet. Try again shortly."

// SummaryFormatter renders a deterministic textual report of the primary
// projection from the current snapshot. Read-only against the cache.
type SummaryFormatter struct {
	cache      *TransitCache
	archetypes dsvc.ArchetypeLookup
	texts      pkgcache.Service
	textTTL    time.Duration
}

// NewSummaryFormatter creates a new SummaryFormatter instance. texts may be
// nil to disable report caching.
func NewSummaryFormatter(cache *TransitCache, archetypes dsvc.ArchetypeLookup, texts pkgcache.Service, textTTL time.Duration) *SummaryFormatter {
	return &SummaryFormatter{cache: cache, archetypes: archetypes, texts: texts, textTTL: textTTL}
}

// Summary returns the report for the current snapshot, or the placeholder
// when the cache is empty. Never errors.
func (s *SummaryFormatter) Summary(ctx context.Context) string {
	snap := s.cache.Current(ctx)
	if snap == nil {
		return SummaryPlaceholder
	}

	key := pkgcache.GenerateKey("summary", fmt.Sprintf("%d", snap.ComputedAt.Unix()))
	if s.texts != nil {
		var cached string
		if err := s.texts.Get(ctx, key, &cached); err == nil && cached != "" {
			return cached
		}
	}

	text := FormatSummary(snap, s.archetypes)
	if s.texts != nil {
		_ = s.texts.Set(ctx, key, text, s.textTTL)
	}
	return text
}

// FormatSummary renders the primary projection of one snapshot. Pure.
func FormatSummary(snap *models.TransitSnapshot, archetypes dsvc.ArchetypeLookup) string {
	primary := models.DefaultChartSystem()
	placements := snap.Projections[primary]

	var b strings.Builder
	fmt.Fprintf(&b, "Current transits (%s) at %s\n",
		primary, snap.ComputedAt.UTC().Format("2006-01-02 15:04 MST"))
	for _, p := range placements {
		retro := ""
		if p.Retrograde {
			retro = " (R)"
		}
		theme := "-"
		if a, ok := archetypes.Lookup(p.Gate); ok {
			theme = a.Theme
		}
		fmt.Fprintf(&b, "%-10s gate %2d.%d%s  %s\n", p.Body, p.Gate, p.Line, retro, theme)
	}
	return b.String()
}
