package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domservice "StockCast/internal/domain/service"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/service/metrics"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"

	"github.com/labstack/echo/v4"
)

// Response cache TTLs per endpoint family.
const (
	quoteCacheTTL  = 15 * time.Minute
	signalCacheTTL = 15 * time.Minute
	chartCacheTTL  = time.Hour
)

// ForecastHandler exposes the prediction, signal, sizing, and advisor
// pipeline over HTTP.
type ForecastHandler struct {
	market    domrepo.MarketData
	predictor *usecase.Predictor
	trainer   *usecase.Trainer
	advisor   *usecase.Advisor
	parser    domservice.QueryParser
	jobs      queue.QueueService
	bars      domrepo.BarStore
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
	rlCap     float64
	rlRefill  float64
	l         *applogger.Logger
}

func NewForecastHandler(
	market domrepo.MarketData,
	predictor *usecase.Predictor,
	trainer *usecase.Trainer,
	advisor *usecase.Advisor,
	parser domservice.QueryParser,
) *ForecastHandler {
	metrics.Register()
	return &ForecastHandler{
		market:    market,
		predictor: predictor,
		trainer:   trainer,
		advisor:   advisor,
		parser:    parser,
		rl:        ratelimit.New(),
		rlCap:     5,
		rlRefill:  2,
	}
}

// SetCache attaches a response cache.
func (h *ForecastHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetJobQueue enables async retrains.
func (h *ForecastHandler) SetJobQueue(q queue.QueueService) { h.jobs = q }

// SetBarStore wires the durable bar store into health reporting.
func (h *ForecastHandler) SetBarStore(b domrepo.BarStore) { h.bars = b }

// SetRateLimit overrides the per-client token bucket parameters.
func (h *ForecastHandler) SetRateLimit(capacity, refillPerSec float64) {
	h.rlCap, h.rlRefill = capacity, refillPerSec
}

// SetLogger injects a structured logger.
func (h *ForecastHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/quote", h.Quote)
	g.GET("/predict", h.Predict)
	g.GET("/signal", h.Signal)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/chart", h.Chart)
	g.POST("/train", h.Train)
	g.GET("/analyze", h.Analyze)
	g.POST("/ask", h.Ask)
	e.GET("/healthz", h.Health)
}

// respond runs one cached, rate-limited endpoint: cache hit short-circuits,
// otherwise fn is invoked and its envelope is cached for ttl.
func (h *ForecastHandler) respond(c echo.Context, endpoint, cacheKey string, ttl time.Duration, fn func() (interface{}, error)) error {
	start := time.Now()
	defer func() {
		metrics.ForecastLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if !h.rl.Allow(c.RealIP()+":"+endpoint, h.rlCap, h.rlRefill) {
		if h.l != nil {
			h.l.Warn("rate limited", applogger.String("endpoint", endpoint), applogger.String("remote", c.RealIP()))
		}
		return c.JSON(http.StatusTooManyRequests, xhttp.APIResponse{
			Status:  http.StatusTooManyRequests,
			Message: http.StatusText(http.StatusTooManyRequests),
		})
	}

	if h.cache != nil && cacheKey != "" {
		if b, ok, err := h.cache.GetBytes(cacheKey); err == nil && ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	data, err := fn()
	if err != nil {
		metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error(endpoint+" failed", applogger.Error(err))
		}
		return errorResponse(c, err)
	}

	body, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil && cacheKey != "" && ttl > 0 {
		if cerr := h.cache.SetBytes(cacheKey, body, ttl); cerr != nil && h.l != nil {
			h.l.Warn("response cache set failed", applogger.String("key", cacheKey), applogger.Error(cerr))
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}

// errorResponse maps domain sentinels onto HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domrepo.ErrQuoteUnavailable), errors.Is(err, domrepo.ErrHistoryUnavailable):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_UPSTREAM", "", err.Error(), http.StatusBadGateway))
	case errors.Is(err, domrepo.ErrInsufficientData):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, domrepo.ErrModelNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, usecase.ErrTrainInProgress):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_TRAIN_IN_PROGRESS", "", err.Error(), http.StatusConflict))
	default:
		return xhttp.InternalServerErrorResponse(c)
	}
}

func (h *ForecastHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.respond(c, "quote", "resp:quote:"+req.Symbol, quoteCacheTTL, func() (interface{}, error) {
		return h.market.Quote(c.Request().Context(), req.Symbol)
	})
}

func (h *ForecastHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.respond(c, "predict", "resp:predict:"+req.Symbol, signalCacheTTL, func() (interface{}, error) {
		return h.predictor.PredictNextDay(c.Request().Context(), req.Symbol)
	})
}

func (h *ForecastHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	key := "resp:signal:" + req.Symbol + ":" + req.Type
	return h.respond(c, "signal", key, signalCacheTTL, func() (interface{}, error) {
		return h.predictor.GenerateSignal(c.Request().Context(), req.Symbol, models.PortfolioType(req.Type))
	})
}

// Portfolio is the signal endpoint with the risk profile spelled out; it
// shares the signal cache keyspace.
func (h *ForecastHandler) Portfolio(c echo.Context) error {
	return h.Signal(c)
}

func (h *ForecastHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	key := fmt.Sprintf("resp:chart:%s:%d", req.Symbol, req.Days)
	return h.respond(c, "chart", key, chartCacheTTL, func() (interface{}, error) {
		return h.predictor.ChartData(c.Request().Context(), req.Symbol, req.Days)
	})
}

func (h *ForecastHandler) Train(c echo.Context) error {
	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async && h.jobs != nil {
		if err := h.jobs.PublishMessage(c.Request().Context(), usecase.RetrainMessageType, usecase.RetrainPayload{Symbol: req.Symbol}); err != nil {
			metrics.ForecastErrors.WithLabelValues("train").Inc()
			if h.l != nil {
				h.l.Error("retrain enqueue failed", applogger.String("symbol", req.Symbol), applogger.Error(err))
			}
			return xhttp.InternalServerErrorResponse(c)
		}
		return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{
			"symbol": req.Symbol,
			"status": "queued",
		})
	}

	return h.respond(c, "train", "", 0, func() (interface{}, error) {
		return h.trainer.Train(c.Request().Context(), req.Symbol)
	})
}

func (h *ForecastHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.respond(c, "analyze", "", 0, func() (interface{}, error) {
		return h.advisor.AnalyzeInvestment(c.Request().Context(), usecase.AnalyzeRequest{
			Symbol:        req.Symbol,
			CompanyName:   req.CompanyName,
			Intent:        req.Intent,
			Quantity:      req.Quantity,
			PortfolioType: models.PortfolioType(req.Type),
			Budget:        req.Budget,
		})
	})
}

func (h *ForecastHandler) Ask(c echo.Context) error {
	req := &models.AskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.respond(c, "ask", "", 0, func() (interface{}, error) {
		parsed, err := h.parser.Parse(c.Request().Context(), req.Text)
		if err != nil {
			return nil, err
		}
		return h.advisor.AnalyzeInvestment(c.Request().Context(), usecase.AnalyzeRequest{
			Symbol:        parsed.Symbol,
			CompanyName:   parsed.CompanyName,
			Intent:        parsed.Intent,
			Quantity:      parsed.Quantity,
			PortfolioType: models.PortfolioType(req.Type),
			Budget:        req.Budget,
		})
	})
}

func (h *ForecastHandler) Health(c echo.Context) error {
	deps := map[string]string{}
	if h.bars != nil {
		if err := h.bars.Health(c.Request().Context()); err != nil {
			deps["bar_store"] = err.Error()
		} else {
			deps["bar_store"] = "ok"
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"dependencies": deps,
	})
}
