package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jordens/rtl-433/pkg/database"
	"github.com/jordens/rtl-433/pkg/logger"
	"github.com/jordens/rtl-433/pkg/metrics"
)

// ReceptionStore is the slice of the reception repository the API reads.
type ReceptionStore interface {
	GetRecentPaginated(page, perPage int) ([]database.Reception, int64, error)
	CountByModel() (map[string]int64, error)
}

// API handles REST API endpoints
type API struct {
	logger    *logger.Logger
	store     ReceptionStore
	collector *metrics.Collector
	version   string
}

// NewAPI creates a new API instance. store and collector may be nil
// when the corresponding subsystem is disabled.
func NewAPI(log *logger.Logger, store ReceptionStore, collector *metrics.Collector, version string) *API {
	return &API{
		logger:    log,
		store:     store,
		collector: collector,
		version:   version,
	}
}

// HandleStatus handles the /api/status endpoint
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]interface{}{
		"status":  "running",
		"service": "rtl433d",
		"version": a.version,
	}

	json.NewEncoder(w).Encode(response)
}

// HandleReceptions handles the /api/receptions endpoint with optional
// ?page= and ?per_page= query parameters
func (a *API) HandleReceptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if a.store == nil {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"receptions": []interface{}{},
			"total":      0,
		})
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 50)
	if perPage > 500 {
		perPage = 500
	}

	receptions, total, err := a.store.GetRecentPaginated(page, perPage)
	if err != nil {
		a.logger.Error("Failed to query receptions", logger.Error(err))
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"receptions": receptions,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// HandleStats handles the /api/stats endpoint
func (a *API) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]interface{}{}
	if a.collector != nil {
		response["rows_received"] = a.collector.GetRowsReceived()
		response["sync_misses"] = a.collector.GetSyncMisses()
		response["short_frames"] = a.collector.GetShortFrames()
		response["checksum_failures"] = a.collector.GetChecksumFailures()
		response["records_decoded"] = a.collector.GetRecordsDecodedByModel()
	}
	if a.store != nil {
		if counts, err := a.store.CountByModel(); err == nil {
			response["stored_by_model"] = counts
		}
	}

	json.NewEncoder(w).Encode(response)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
