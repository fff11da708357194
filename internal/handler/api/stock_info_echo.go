package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/cache"
	smetrics "StockCast/internal/service/metrics"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockInfoService serves and refreshes per-ticker forecasts.
type StockInfoService interface {
	StockInfo(ctx context.Context, ticker string) (*models.StockInfo, error)
	Refresh(ctx context.Context, ticker string) (*models.StockInfo, error)
	Stats(ctx context.Context) (cached, tickers int, err error)
}

// StockInfoEchoHandler exposes the forecast endpoints.
type StockInfoEchoHandler struct {
	logger *xlogger.Logger
	svc    StockInfoService
	cache  cache.BytesCache
	ttl    time.Duration
	prefix string
}

// CacheOption enables the response cache.
type CacheOption struct {
	Cache  cache.BytesCache
	TTL    time.Duration
	Prefix string
}

func NewStockInfoEchoHandler(logger *xlogger.Logger, svc StockInfoService, co *CacheOption) *StockInfoEchoHandler {
	smetrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &StockInfoEchoHandler{logger: logger, svc: svc}
	if co != nil && co.Cache != nil {
		h.cache, h.ttl, h.prefix = co.Cache, co.TTL, co.Prefix
	}
	return h
}

func (h *StockInfoEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/get_stock_info", h.StockInfo)
	e.POST("/refresh_stock_info/:ticker", h.Refresh)
	e.GET("/healthz", h.Health)
}

// StockInfo serves GET /get_stock_info?ticker=AAPL.
func (h *StockInfoEchoHandler) StockInfo(c echo.Context) error {
	const endpoint = "get_stock_info"
	start := time.Now()
	defer func() {
		smetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.StockInfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, endpoint, verr)
	}
	ticker := usecase.NormalizeTicker(req.Ticker)
	ctx := c.Request().Context()

	if b, ok := h.cached(ctx, ticker); ok {
		return xhttp.JSONBlobResponse(c, b)
	}

	info, err := h.svc.StockInfo(ctx, ticker)
	if err != nil {
		return h.fail(c, endpoint, mapError(ticker, err))
	}
	return h.respond(c, info)
}

// Refresh retrains a ticker and replaces its cached response.
func (h *StockInfoEchoHandler) Refresh(c echo.Context) error {
	const endpoint = "refresh_stock_info"
	start := time.Now()
	defer func() {
		smetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, endpoint, verr)
	}
	ticker := usecase.NormalizeTicker(req.Ticker)

	info, err := h.svc.Refresh(c.Request().Context(), ticker)
	if err != nil {
		return h.fail(c, endpoint, mapError(ticker, err))
	}
	return h.respond(c, info)
}

func (h *StockInfoEchoHandler) Health(c echo.Context) error {
	cached, tickers, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		h.logger.Warn("health stats error", xlogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusServiceUnavailable, "ticker universe unavailable")
	}
	return xhttp.SuccessResponse(c, xhttp.HealthStatus{Status: "ok", Models: cached, Tickers: tickers})
}

func (h *StockInfoEchoHandler) respond(c echo.Context, info *models.StockInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		h.logger.Error("encode stock info", xlogger.String("ticker", info.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("Failed to predict: %v", err))
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(c.Request().Context(), cache.StockInfoKey(h.prefix, info.Ticker), b, h.ttl); err != nil {
			h.logger.Warn("response cache write failed", xlogger.String("ticker", info.Ticker), xlogger.Error(err))
		}
	}
	return xhttp.JSONBlobResponse(c, b)
}

func (h *StockInfoEchoHandler) cached(ctx context.Context, ticker string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(ctx, cache.StockInfoKey(h.prefix, ticker))
	switch {
	case err != nil:
		h.logger.Warn("response cache read failed", xlogger.String("ticker", ticker), xlogger.Error(err))
		smetrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false
	case ok:
		smetrics.CacheLookups.WithLabelValues("hit").Inc()
		return b, true
	default:
		smetrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (h *StockInfoEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) {
		appErr = xhttp.InternalError("Something went wrong").WithError(err)
	}
	smetrics.EndpointErrors.WithLabelValues(endpoint, http.StatusText(appErr.Status)).Inc()
	if appErr.ClientFault() {
		h.logger.Debug("stock info rejected", xlogger.String("endpoint", endpoint), xlogger.String("reason", appErr.Message))
	} else {
		h.logger.Error("stock info error", xlogger.String("endpoint", endpoint), xlogger.Error(appErr))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func mapError(ticker string, err error) *xhttp.AppError {
	var se *usecase.StageError
	switch {
	case errors.Is(err, usecase.ErrInvalidTicker):
		return xhttp.BadRequestErrorf("Invalid ticker: %s", ticker).WithError(err)
	case errors.As(err, &se) && se.Stage == usecase.StagePredict:
		return xhttp.InternalErrorf("Failed to predict: %v", se.Err).WithError(err)
	case errors.As(err, &se):
		return xhttp.InternalErrorf("Failed to initialize system: %v", se.Err).WithError(err)
	default:
		return xhttp.InternalErrorf("Failed to initialize system: %v", err).WithError(err)
	}
}
