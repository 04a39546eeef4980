package api

import (
	"errors"
	"net/http"
	"time"

	models "CosmoPulse/internal/domain/models"
	drepo "CosmoPulse/internal/domain/repository"
	apimetrics "CosmoPulse/internal/service/metrics"
	"CosmoPulse/internal/usecase"
	xhttp "CosmoPulse/pkg/http"
	"CosmoPulse/pkg/http/middleware"
	xlogger "CosmoPulse/pkg/logger"
	xutil "CosmoPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// TransitsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type TransitsEchoHandler struct {
	logger  *xlogger.Logger
	cache   *usecase.TransitCache
	calc    *usecase.FieldVectorCalculator
	summary *usecase.SummaryFormatter
	archive drepo.Archive
	hub     *WSHub
	window  time.Duration
	rl      middleware.RateLimitSettings
}

func NewTransitsEchoHandler(
	logger *xlogger.Logger,
	cache *usecase.TransitCache,
	calc *usecase.FieldVectorCalculator,
	summary *usecase.SummaryFormatter,
	archive drepo.Archive,
	hub *WSHub,
	window time.Duration,
	rl middleware.RateLimitSettings,
) *TransitsEchoHandler {
	apimetrics.Register()
	return &TransitsEchoHandler{
		logger:  logger,
		cache:   cache,
		calc:    calc,
		summary: summary,
		archive: archive,
		hub:     hub,
		window:  window,
		rl:      rl,
	}
}

func (h *TransitsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/transits", h.Transits)
	g.GET("/summary", h.Summary)
	g.GET("/history", h.History)
	if h.rl.Enabled {
		g.POST("/fields", h.Fields, middleware.RateLimit(h.rl.Capacity, h.rl.RefillPerSec))
	} else {
		g.POST("/fields", h.Fields)
	}
	e.GET("/ws/transits", h.Stream)
}

// Transits serves the current shared snapshot. While no snapshot exists yet
// the endpoint answers 200 with a not-ready envelope rather than erroring;
// an empty cache is an expected startup state.
func (h *TransitsEchoHandler) Transits(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("transits").Observe(time.Since(start).Seconds())
	}()

	snap := h.cache.Current(c.Request().Context())
	if snap == nil {
		return xhttp.SuccessResponse(c, map[string]interface{}{"status": "not_ready"})
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      "ok",
		"computed_at": snap.ComputedAt.UTC(),
		"expires_at":  snap.ExpiresAt.UTC(),
		"stale":       snap.Stale(time.Now()),
		"projections": snap.Projections,
	})
}

// Fields computes the caller's per-field activation vector against the
// current snapshot.
func (h *TransitsEchoHandler) Fields(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("fields").Observe(time.Since(start).Seconds())
	}()

	req := &models.FieldVectorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("fields").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	vectors, err := h.calc.Compute(c.Request().Context(), req.Signature())
	if err != nil {
		if errors.Is(err, usecase.ErrCacheUnavailable) {
			return xhttp.SuccessResponse(c, map[string]interface{}{
				"status": "not_ready",
				"fields": []models.FieldVector{},
			})
		}
		apimetrics.APIErrors.WithLabelValues("fields").Inc()
		h.logger.Error("field vectors usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"fields": vectors,
	})
}

// Summary serves the human-readable transit report as plain text.
func (h *TransitsEchoHandler) Summary(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("summary").Observe(time.Since(start).Seconds())
	}()

	return c.String(http.StatusOK, h.summary.Summary(c.Request().Context()))
}

// History serves archived placements for one projection variant. The time
// range is aligned outward to whole refresh windows so rows land on
// snapshot boundaries.
func (h *TransitsEchoHandler) History(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("history").Observe(time.Since(start).Seconds())
	}()

	if h.archive == nil {
		return xhttp.NotFoundResponse(c, "history archive is not enabled")
	}

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("history").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	from, to = xutil.AlignFromTo(from, to, h.window)

	rows, err := h.archive.Query(c.Request().Context(), models.NormalizeChartSystem(req.Chart), from, to, req.Limit)
	if err != nil {
		apimetrics.APIErrors.WithLabelValues("history").Inc()
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Stream upgrades the connection and subscribes it to snapshot pushes.
func (h *TransitsEchoHandler) Stream(c echo.Context) error {
	if h.hub == nil {
		return xhttp.NotFoundResponse(c, "live stream is not enabled")
	}
	if err := h.hub.Subscribe(c.Response(), c.Request()); err != nil {
		apimetrics.APIErrors.WithLabelValues("stream").Inc()
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	return nil
}
