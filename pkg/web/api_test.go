package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordens/rtl-433/pkg/database"
	"github.com/jordens/rtl-433/pkg/logger"
	"github.com/jordens/rtl-433/pkg/metrics"
)

type fakeStore struct {
	receptions []database.Reception
}

func (f *fakeStore) GetRecentPaginated(page, perPage int) ([]database.Reception, int64, error) {
	return f.receptions, int64(len(f.receptions)), nil
}

func (f *fakeStore) CountByModel() (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, r := range f.receptions {
		counts[r.Model]++
	}
	return counts, nil
}

func testAPI(store ReceptionStore, collector *metrics.Collector) *API {
	log := logger.New(logger.Config{Level: "error"})
	return NewAPI(log, store, collector, "test")
}

func TestAPI_Status(t *testing.T) {
	api := testAPI(nil, nil)

	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	api.HandleStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["service"] != "rtl433d" || resp["status"] != "running" {
		t.Errorf("unexpected status response: %v", resp)
	}
}

func TestAPI_Receptions(t *testing.T) {
	store := &fakeStore{receptions: []database.Reception{
		{Model: "Minol", Raw: "0000", MIC: "CRC"},
		{Model: "Minol", Raw: "beef", MIC: "CRC"},
	}}
	api := testAPI(store, nil)

	req := httptest.NewRequest("GET", "/api/receptions?page=1&per_page=10", nil)
	w := httptest.NewRecorder()
	api.HandleReceptions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Receptions []database.Reception `json:"receptions"`
		Total      int64                `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Total != 2 || len(resp.Receptions) != 2 {
		t.Errorf("unexpected receptions response: %+v", resp)
	}
}

func TestAPI_Receptions_NoStore(t *testing.T) {
	api := testAPI(nil, nil)

	req := httptest.NewRequest("GET", "/api/receptions", nil)
	w := httptest.NewRecorder()
	api.HandleReceptions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with nil store, got %d", w.Code)
	}
}

func TestAPI_Stats(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RowReceived(72)
	collector.SyncMiss()
	collector.RecordDecoded("Minol", 2)

	api := testAPI(&fakeStore{}, collector)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	api.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["rows_received"].(float64) != 1 {
		t.Errorf("expected 1 row received, got %v", resp["rows_received"])
	}
	if resp["sync_misses"].(float64) != 1 {
		t.Errorf("expected 1 sync miss, got %v", resp["sync_misses"])
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	api := testAPI(nil, nil)

	for _, handler := range []http.HandlerFunc{api.HandleStatus, api.HandleReceptions, api.HandleStats} {
		req := httptest.NewRequest("POST", "/api/x", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", w.Code)
		}
	}
}
