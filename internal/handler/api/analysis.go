package api

import (
	"context"
	"errors"
	"strings"

	"XSPMonitor/internal/domain/models"
	"XSPMonitor/internal/engine"
	"XSPMonitor/internal/service/ratelimit"
	"XSPMonitor/internal/usecase"
	xhttp "XSPMonitor/pkg/http"
	xlogger "XSPMonitor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Analyzer is what the handlers need from usecase.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req usecase.AnalyzeRequest) (models.Analysis, error)
	News(ctx context.Context) models.NewsWindowState
	Levels(price, vol float64, tier models.Tier) (models.LevelSet, error)
}

// AnalysisHandler serves the dashboard API.
type AnalysisHandler struct {
	logger         *xlogger.Logger
	analyzer       Analyzer
	limiter        *ratelimit.Limiter
	defaultCapital float64
}

// NewAnalysisHandler creates the handler. A nil limiter disables rate limiting;
// defaultCapital is used when a request omits capital.
func NewAnalysisHandler(logger *xlogger.Logger, analyzer Analyzer, limiter *ratelimit.Limiter, defaultCapital float64) *AnalysisHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisHandler{logger: logger, analyzer: analyzer, limiter: limiter, defaultCapital: defaultCapital}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.GET("/analysis", h.Analysis)
	g.GET("/news", h.News)
	g.GET("/levels", h.Levels)
}

// Analysis runs the full decision. Upstream calls happen per request, so
// this is the endpoint the limiter protects.
func (h *AnalysisHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if c.QueryParam("capital") == "" {
		req.Capital = h.defaultCapital
	}
	policy, err := usecase.ParseNewsPolicy(req.NewsPolicy)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeRequest{
		Capital:    req.Capital,
		NewsPolicy: policy,
	})
	if err != nil {
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) News(c echo.Context) error {
	state := h.analyzer.News(c.Request().Context())
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, state)
}

func (h *AnalysisHandler) Levels(c echo.Context) error {
	req := &models.LevelsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tier, err := models.ParseTier(req.Tier)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	lv, err := h.analyzer.Levels(req.Price, req.Vol, tier)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, lv)
}

func (h *AnalysisHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
		}
		return next(c)
	}
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return xhttp.BadRequestError(strings.TrimPrefix(err.Error(), engine.ErrInvalidInput.Error()+": ")).WithError(err)
	case errors.Is(err, engine.ErrDataUnavailable), errors.Is(err, usecase.ErrQuotesUnavailable):
		return xhttp.UnavailableError("market data unavailable").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.UnavailableError("upstream timeout").WithError(err)
	default:
		return xhttp.InternalError("analysis failed").WithError(err)
	}
}
