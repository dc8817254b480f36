package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/sherlingdev/flare-sub001/internal/model"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
)

type stubRatesRepo struct {
	table map[string]float64
}

func (s *stubRatesRepo) Latest(_ context.Context, base string) ([]model.ExchangeRate, error) {
	var out []model.ExchangeRate
	for quote, rate := range s.table {
		out = append(out, model.ExchangeRate{Base: base, Quote: quote, Rate: rate})
	}
	return out, nil
}

func (s *stubRatesRepo) Get(_ context.Context, base, quote string) (*model.ExchangeRate, error) {
	rate, ok := s.table[quote]
	if !ok {
		return nil, nil
	}
	return &model.ExchangeRate{Base: base, Quote: quote, Rate: rate}, nil
}

func (s *stubRatesRepo) UpsertBatch(_ context.Context, _ []model.ExchangeRate) error { return nil }

type stubCurrenciesRepo struct {
	list []model.Currency
}

func (s *stubCurrenciesRepo) List(_ context.Context) ([]model.Currency, error) { return s.list, nil }
func (s *stubCurrenciesRepo) GetByCode(_ context.Context, code string) (*model.Currency, error) {
	for i := range s.list {
		if s.list[i].Code == code {
			return &s.list[i], nil
		}
	}
	return nil, nil
}
func (s *stubCurrenciesRepo) Upsert(_ context.Context, _ model.Currency) error { return nil }

func doJSON(t *testing.T, e *echo.Echo, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return rec.Code, body
}

func TestConvertHandler(t *testing.T) {
	svc := ratesvc.New(&stubRatesRepo{table: map[string]float64{"EUR": 0.5, "GBP": 0.25}}, nil, time.Minute)
	e := echo.New()
	e.GET("/api/convert", convertHandler(svc, "USD"))

	code, body := doJSON(t, e, http.MethodGet, "/api/convert?from=eur&to=gbp&amount=10")
	if code != http.StatusOK {
		t.Fatalf("want 200, got %d", code)
	}
	if got := body["result"].(float64); got != 5 {
		t.Fatalf("10 EUR at 0.5/0.25 should be 5 GBP, got %v", got)
	}

	code, _ = doJSON(t, e, http.MethodGet, "/api/convert?from=EUR&to=GBP")
	if code != http.StatusBadRequest {
		t.Fatalf("missing amount: want 400, got %d", code)
	}

	code, _ = doJSON(t, e, http.MethodGet, "/api/convert?from=XXX&to=GBP&amount=1")
	if code != http.StatusNotFound {
		t.Fatalf("unknown currency: want 404, got %d", code)
	}
}

func TestListCurrenciesHandler(t *testing.T) {
	repo := &stubCurrenciesRepo{list: []model.Currency{
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
	}}
	e := echo.New()
	e.GET("/api/currencies", listCurrenciesHandler(repo))

	code, body := doJSON(t, e, http.MethodGet, "/api/currencies")
	if code != http.StatusOK {
		t.Fatalf("want 200, got %d", code)
	}
	if got := body["count"].(float64); got != 2 {
		t.Fatalf("want count=2, got %v", got)
	}
}

func TestRateByCodeHandler(t *testing.T) {
	svc := ratesvc.New(&stubRatesRepo{table: map[string]float64{"EUR": 0.92}}, nil, time.Minute)
	e := echo.New()
	e.GET("/api/rates/:code", rateByCodeHandler(svc, "USD"))

	code, body := doJSON(t, e, http.MethodGet, "/api/rates/eur")
	if code != http.StatusOK {
		t.Fatalf("want 200, got %d", code)
	}
	result := body["result"].(map[string]any)
	if result["quote"] != "EUR" {
		t.Fatalf("unexpected result: %v", result)
	}

	code, _ = doJSON(t, e, http.MethodGet, "/api/rates/zzz")
	if code != http.StatusNotFound {
		t.Fatalf("want 404 for unknown code, got %d", code)
	}
}
