package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/audit"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/custody"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/events"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/ledger"
)

// SnapshotExporter is implemented by stores that can export a consistent
// copy of their contents for download.
type SnapshotExporter interface {
	ExportSnapshot() ([]byte, error)
}

// Service handles API requests
type Service struct {
	ledger   *ledger.Ledger
	store    ledger.Store
	vault    *custody.Vault
	trail    *audit.Trail
	recent   *events.CaptureSink
	exporter SnapshotExporter
}

// NewService creates a new API service. exporter may be nil when the backing
// store cannot produce snapshots (e.g. the in-memory store).
func NewService(l *ledger.Ledger, store ledger.Store, vault *custody.Vault, trail *audit.Trail, recent *events.CaptureSink, exporter SnapshotExporter) *Service {
	return &Service{
		ledger:   l,
		store:    store,
		vault:    vault,
		trail:    trail,
		recent:   recent,
		exporter: exporter,
	}
}

// writeJSON writes a JSON response
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// statusForLedgerError maps the ledger error taxonomy onto HTTP statuses.
// Validation failures are the caller's fault; replay rejections depend on
// whether the message was ever seen.
func statusForLedgerError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownMessage):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyConsumed):
		return http.StatusConflict
	case ledger.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
