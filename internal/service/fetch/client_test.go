package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/latest/USD" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"EUR":0.92,"GBP":0.79}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/v6/latest", 1000)
	rates, err := c.FetchLatest(context.Background(), "USD")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rates) != 2 || rates["EUR"] != 0.92 {
		t.Fatalf("unexpected rates: %+v", rates)
	}
}

func TestClient_FetchLatestNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/v6/latest", 1000)
	if _, err := c.FetchLatest(context.Background(), "USD"); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestClient_FetchLatestBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/v6/latest", 1000)
	if _, err := c.FetchLatest(context.Background(), "USD"); err == nil {
		t.Fatalf("expected error when provider result is not success")
	}
}
