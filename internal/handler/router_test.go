package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rafisgodoy/unibus-core-go/internal/handler"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/session"

	"go.uber.org/zap"
)

type memStore struct {
	data map[string]string
}

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newRouter() http.Handler {
	sess := session.New(&memStore{data: map[string]string{}}, zap.NewNop())
	return handler.NewDebugRouter(observability.NewMetrics(), sess, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["logged_in"] != false {
		t.Errorf("expected logged_in=false, got %v", body["logged_in"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(newRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWorkflowSnapshot(t *testing.T) {
	srv := httptest.NewServer(newRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/workflow")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var snapshot observability.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snapshot.UploadsOK != 0 || snapshot.ErrorToasts != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snapshot)
	}
}
