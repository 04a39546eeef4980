package ephemeris

import (
	"context"
	"fmt"
	"time"

	"CosmoPulse/internal/domain/models"
	dsvc "CosmoPulse/internal/domain/service"
	xhttp "CosmoPulse/pkg/http"
)

// HTTPProvider implements EphemerisProvider against the projection service
// (a Swiss Ephemeris wrapper). The provider is stateless; caching and retry
// policy live in the transit cache, not here.
type HTTPProvider struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPProvider builds a provider client with timeout and base URL.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type tripleReq struct {
	Timestamp int64 `json:"timestamp"`
}

type tripleResp struct {
	Projections map[string][]struct {
		Body       string `json:"body"`
		Gate       int    `json:"gate"`
		Line       int    `json:"line"`
		Retrograde bool   `json:"retrograde"`
	} `json:"projections"`
}

// TripleProjection fetches the tropical/sidereal/draconic placements for one
// instant. All three variants must be present or the call fails; a snapshot
// is committed whole or not at all.
func (p *HTTPProvider) TripleProjection(ctx context.Context, at time.Time) (models.ProjectionSet, error) {
	if p.client == nil || p.baseURL == "" {
		return nil, fmt.Errorf("ephemeris client not initialized")
	}

	var tr tripleResp
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    p.baseURL + "/projection/triple",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: tripleReq{Timestamp: at.Unix()},
	}, &tr)
	if err != nil {
		return nil, fmt.Errorf("post triple projection: %w", err)
	}

	out := make(models.ProjectionSet, len(models.ChartSystems))
	for _, cs := range models.ChartSystems {
		raw, ok := tr.Projections[string(cs)]
		if !ok {
			return nil, fmt.Errorf("projection %s missing in response", cs)
		}
		placements := make([]models.Placement, 0, len(raw))
		for _, r := range raw {
			placements = append(placements, models.Placement{
				Body:       r.Body,
				Gate:       r.Gate,
				Line:       r.Line,
				Retrograde: r.Retrograde,
			})
		}
		out[cs] = placements
	}
	return out, nil
}

var _ dsvc.EphemerisProvider = (*HTTPProvider)(nil)
