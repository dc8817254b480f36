package rates

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sherlingdev/flare-sub001/internal/model"
)

type fakeRatesRepo struct {
	table map[string]float64 // quote -> rate against USD
	err   error
	calls int
}

func (f *fakeRatesRepo) Latest(_ context.Context, base string) ([]model.ExchangeRate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ExchangeRate
	for quote, rate := range f.table {
		out = append(out, model.ExchangeRate{Base: base, Quote: quote, Rate: rate, FetchedAt: time.Now()})
	}
	return out, nil
}

func (f *fakeRatesRepo) Get(_ context.Context, base, quote string) (*model.ExchangeRate, error) {
	if f.err != nil {
		return nil, f.err
	}
	rate, ok := f.table[quote]
	if !ok {
		return nil, nil
	}
	return &model.ExchangeRate{Base: base, Quote: quote, Rate: rate}, nil
}

func (f *fakeRatesRepo) UpsertBatch(_ context.Context, _ []model.ExchangeRate) error { return f.err }

func TestService_Convert(t *testing.T) {
	repo := &fakeRatesRepo{table: map[string]float64{"EUR": 0.92, "GBP": 0.79}}
	svc := New(repo, nil, time.Minute)

	got, err := svc.Convert(context.Background(), "USD", "EUR", "GBP", 100)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := 100 * (0.79 / 0.92)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestService_ConvertBaseLeg(t *testing.T) {
	repo := &fakeRatesRepo{table: map[string]float64{"EUR": 0.92}}
	svc := New(repo, nil, time.Minute)

	got, err := svc.Convert(context.Background(), "USD", "USD", "EUR", 50)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if math.Abs(got-46) > 1e-9 {
		t.Fatalf("want 46, got %v", got)
	}
}

func TestService_ConvertUnknownCurrency(t *testing.T) {
	repo := &fakeRatesRepo{table: map[string]float64{"EUR": 0.92}}
	svc := New(repo, nil, time.Minute)

	if _, err := svc.Convert(context.Background(), "USD", "XXX", "EUR", 1); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("want ErrUnknownCurrency, got %v", err)
	}
}

func TestService_LatestWithoutCache(t *testing.T) {
	repo := &fakeRatesRepo{table: map[string]float64{"EUR": 0.92}}
	svc := New(repo, nil, time.Minute)

	out, err := svc.Latest(context.Background(), "USD")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(out) != 1 || repo.calls != 1 {
		t.Fatalf("expected one row via one repo call, got %d rows, %d calls", len(out), repo.calls)
	}
}
