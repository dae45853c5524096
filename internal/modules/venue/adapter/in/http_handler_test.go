package in_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	venuein "anticafe/internal/modules/venue/adapter/in"
	"anticafe/internal/modules/venue/service"
	"anticafe/internal/modules/venue/usecase"
	"anticafe/internal/platform/clock"
)

func newServer(t *testing.T) (*httptest.Server, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC))
	svc, err := service.NewVenueService(4, 5, service.Deps{Clock: clk})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("anticafe_sessions_total 0\n"))
	})
	handler := venuein.NewHTTPHandler(usecase.NewInteractor(svc), zerolog.Nop())
	server := httptest.NewServer(handler.Router(metrics))
	t.Cleanup(server.Close)
	return server, clk
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHTTPToggleAndStatistics(t *testing.T) {
	t.Parallel()
	server, clk := newServer(t)

	var toggled map[string]any
	if status := do(t, http.MethodPost, server.URL+"/api/tables/2/toggle", &toggled); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if toggled["started"] != true {
		t.Fatalf("expected started toggle, got %v", toggled)
	}

	clk.Advance(9 * time.Minute)
	var current struct {
		Tables []struct {
			Number   int     `json:"number"`
			Occupied bool    `json:"occupied"`
			Cost     float64 `json:"cost"`
		} `json:"tables"`
		Total float64 `json:"total"`
	}
	do(t, http.MethodGet, server.URL+"/api/statistics/current", &current)
	if len(current.Tables) != 4 || !current.Tables[1].Occupied || current.Total != 45 {
		t.Fatalf("unexpected current statistics: %+v", current)
	}

	var ended struct {
		Started bool `json:"started"`
		Session struct {
			Minutes int64   `json:"minutes"`
			Cost    float64 `json:"cost"`
		} `json:"session"`
	}
	do(t, http.MethodPost, server.URL+"/api/tables/2/toggle", &ended)
	if ended.Started || ended.Session.Cost != 45 || ended.Session.Minutes != 9 {
		t.Fatalf("unexpected end response: %+v", ended)
	}

	var archive struct {
		TotalEarnings  float64 `json:"total_earnings"`
		TotalSessions  int     `json:"total_sessions"`
		MostUsed       *int    `json:"most_used_table"`
		MostProfitable *int    `json:"most_profitable_table"`
	}
	do(t, http.MethodGet, server.URL+"/api/statistics/archive", &archive)
	if archive.TotalEarnings != 45 || archive.TotalSessions != 1 || archive.MostUsed == nil || *archive.MostUsed != 2 {
		t.Fatalf("unexpected archive: %+v", archive)
	}
}

func TestHTTPEmptyArchiveHasNoMostUsedTable(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)
	var archive map[string]any
	do(t, http.MethodGet, server.URL+"/api/statistics/archive", &archive)
	if archive["most_used_table"] != nil || archive["most_profitable_table"] != nil {
		t.Fatalf("expected null most used/profitable tables, got %v", archive)
	}
}

func TestHTTPUnknownTable(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)
	var body map[string]string
	if status := do(t, http.MethodPost, server.URL+"/api/tables/99/toggle", &body); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if !strings.Contains(body["error"], "not found") {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestHTTPListTablesAndMetrics(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)
	var tables []map[string]any
	if status := do(t, http.MethodGet, server.URL+"/api/tables", &tables); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(tables) != 4 {
		t.Fatalf("expected 4 tables, got %d", len(tables))
	}
	if status := do(t, http.MethodGet, server.URL+"/metrics", nil); status != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", status)
	}
}
