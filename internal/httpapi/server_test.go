package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aday913/alpaca-trading-bot/internal/store"
)

// memStore is an in-memory RunStore for handler tests.
type memStore struct {
	runs []store.Run
}

func (m *memStore) SaveRun(_ context.Context, run *store.Run) error {
	run.ID = int64(len(m.runs) + 1)
	run.CreatedAt = time.Now().UTC()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memStore) GetRun(_ context.Context, id int64) (*store.Run, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, store.ErrRunNotFound
}

func (m *memStore) ListRuns(_ context.Context, limit int) ([]store.Run, error) {
	out := make([]store.Run, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	ms := &memStore{}
	return NewServer(ms), ms
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestListRuns(t *testing.T) {
	s, ms := newTestServer(t)
	for i := 0; i < 3; i++ {
		_ = ms.SaveRun(context.Background(), &store.Run{
			Symbols:  []string{"AAPL"},
			Strategy: "sma-cross",
			Steps:    i,
		})
	}

	rec := doRequest(t, s, http.MethodGet, "/api/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var runs []RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	// Newest first.
	if runs[0].Steps != 2 {
		t.Errorf("first run Steps = %d, want 2", runs[0].Steps)
	}
}

func TestListRunsLimit(t *testing.T) {
	s, ms := newTestServer(t)
	for i := 0; i < 5; i++ {
		_ = ms.SaveRun(context.Background(), &store.Run{})
	}

	rec := doRequest(t, s, http.MethodGet, "/api/runs?limit=2")
	var runs []RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestListRunsBadLimit(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/runs?limit=banana")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	s, ms := newTestServer(t)
	run := &store.Run{
		Symbols:      []string{"AAPL", "MSFT"},
		Strategy:     "sma-cross",
		Benchmark:    "SPY",
		StartingCash: 10000,
		FinalValue:   10800,
	}
	_ = ms.SaveRun(context.Background(), run)

	rec := doRequest(t, s, http.MethodGet, "/api/runs/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ID != 1 || got.FinalValue != 10800 || len(got.Symbols) != 2 {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/runs/99")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetRunBadID(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/runs/abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
