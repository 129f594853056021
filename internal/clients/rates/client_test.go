package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/varlik-app/varlik/internal/common"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		&common.RatesConfig{BaseURL: server.URL, RateLimit: 1000, Timeout: "5s"},
		common.CurrencyConfig{Local: "TRY", Foreign: "USD"},
		common.NewSilentLogger(),
	)
}

func TestCurrentRate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base"); got != "USD" {
			t.Errorf("base = %q, want USD", got)
		}
		if got := r.URL.Query().Get("symbols"); got != "TRY" {
			t.Errorf("symbols = %q, want TRY", got)
		}
		w.Write([]byte(`{"base":"USD","date":"2026-08-25","rates":{"TRY":41.03}}`))
	})

	client := newTestClient(t, mux)
	rate, ok, err := client.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("CurrentRate: %v", err)
	}
	if !ok || rate != 41.03 {
		t.Errorf("rate = %v/%v, want 41.03", rate, ok)
	}
}

func TestHistoricalRate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2025-06-15", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","date":"2025-06-13","rates":{"TRY":39.40}}`))
	})

	client := newTestClient(t, mux)
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rate, ok, err := client.HistoricalRate(context.Background(), date)
	if err != nil {
		t.Fatalf("HistoricalRate: %v", err)
	}
	if !ok || rate != 39.40 {
		t.Errorf("rate = %v/%v, want 39.40", rate, ok)
	}
}

func TestHistoricalRateZeroDateFallsBackToLatest(t *testing.T) {
	var path string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"base":"USD","date":"2026-08-25","rates":{"TRY":41.03}}`))
	})

	client := newTestClient(t, mux)
	_, _, err := client.HistoricalRate(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("HistoricalRate: %v", err)
	}
	if path != "/latest" {
		t.Errorf("path = %s, want /latest", path)
	}
}

func TestRateNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	client := newTestClient(t, mux)
	rate, ok, err := client.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("404 should degrade, not error: %v", err)
	}
	if ok || rate != 0 {
		t.Errorf("rate = %v/%v, want unavailable", rate, ok)
	}
}

func TestRateMissingFromResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","date":"2026-08-25","rates":{"EUR":0.86}}`))
	})

	client := newTestClient(t, mux)
	_, ok, err := client.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("CurrentRate: %v", err)
	}
	if ok {
		t.Errorf("missing pair should report unavailable")
	}
}

func TestRateServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	})

	client := newTestClient(t, mux)
	if _, _, err := client.CurrentRate(context.Background()); err == nil {
		t.Errorf("server errors should surface")
	}
}
