package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/usecase"

	"github.com/labstack/echo/v4"
)

type stubMarket struct{ price float64 }

func (s *stubMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	return &models.Quote{Symbol: symbol, Price: s.price, Source: "stub"}, nil
}

func (s *stubMarket) History(_ context.Context, symbol string, days int) (*models.PriceSeries, error) {
	bars := make([]models.Bar, days)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100.0 + float64(i)*0.4 + math.Sin(float64(i))
		bars[i] = models.Bar{Day: day.AddDate(0, 0, i), Close: price}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: "stub"}, nil
}

type stubArtifacts struct{ data map[string]*domrepo.Artifact }

func (s *stubArtifacts) Save(symbol string, a *domrepo.Artifact) error {
	s.data[symbol] = a
	return nil
}

func (s *stubArtifacts) Load(symbol string) (*domrepo.Artifact, error) {
	a, ok := s.data[symbol]
	if !ok {
		return nil, domrepo.ModelNotFoundError(symbol)
	}
	return a, nil
}

func (s *stubArtifacts) Exists(symbol string) bool { _, ok := s.data[symbol]; return ok }
func (s *stubArtifacts) Delete(symbol string) error {
	delete(s.data, symbol)
	return nil
}

type stubSentiment struct{}

func (stubSentiment) Sentiment(context.Context, string, string) (*models.Sentiment, error) {
	return &models.Sentiment{Label: "neutral"}, nil
}

func newTestHandler() *ForecastHandler {
	market := &stubMarket{price: 120}
	store := &stubArtifacts{data: make(map[string]*domrepo.Artifact)}
	trainer := usecase.NewTrainer(market, store, nil, nil)
	predictor := usecase.NewPredictor(market, store, trainer, nil)
	advisor := usecase.NewAdvisor(market, predictor, stubSentiment{}, usecase.NewStrategy())
	h := NewForecastHandler(market, predictor, trainer, advisor, nil)
	h.SetRateLimit(1000, 1000)
	return h
}

func doRequest(t *testing.T, h *ForecastHandler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuoteRequiresSymbol(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/api/quote", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got status %d", resp.Status)
	}
}

func TestSignalEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/api/signal?symbol=AAPL&type=balanced", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status int           `json:"status"`
		Data   models.Signal `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status %d", resp.Status)
	}
	if resp.Data.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", resp.Data.Symbol)
	}
	if resp.Data.Action == "" || resp.Data.Confidence == "" {
		t.Fatalf("incomplete signal: %+v", resp.Data)
	}
}

func TestSignalRejectsUnknownType(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/api/signal?symbol=AAPL&type=reckless", "")
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", resp.Status)
	}
}

func TestSignalResponseCached(t *testing.T) {
	h := newTestHandler()
	h.SetCache(icache.NewTTLCache())

	first := doRequest(t, h, http.MethodGet, "/api/signal?symbol=AAPL", "")
	second := doRequest(t, h, http.MethodGet, "/api/signal?symbol=AAPL", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses %d / %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached response should be byte-identical")
	}
}

func TestTrainEndpointSynchronous(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/train", `{"symbol":"AAPL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status int                `json:"status"`
		Data   models.TrainReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.TrainingSamples == 0 {
		t.Fatalf("empty train report: %+v", resp.Data)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}
}
