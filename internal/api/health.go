package api

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"
)

// @Title: Get Health
// @Route: GET /api/health
// @Description: Returns server health status
// @Response: {"status": "ok"}
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// @Title: Get Version
// @Route: GET /api/version
// @Description: Returns hub version and runtime details
// @Response: {"version": "...", "status": "ok", "hostname": "..."}
func (s *Service) HandleVersion(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()

	s.writeJSON(w, http.StatusOK, map[string]string{
		"version":  types.Version,
		"status":   "ok",
		"hostname": hostname,
		"go_ver":   runtime.Version(),
		"os_arch":  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	})
}

// @Title: Get Audit Trail
// @Route: GET /api/audit?n=<count>
// @Description: Returns recent audit entries, newest first
// @Response: Array of audit Entry objects
func (s *Service) HandleAudit(w http.ResponseWriter, r *http.Request) {
	n := 50
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}
	s.writeJSON(w, http.StatusOK, s.trail.GetRecent(n))
}

// @Title: Get Recent Events
// @Route: GET /api/events
// @Description: Returns recently emitted EVENT_JSON lines, oldest first
// @Response: Array of event line strings
func (s *Service) HandleEvents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.recent.Lines())
}

// @Title: Export Ledger Snapshot
// @Route: GET /api/export/download
// @Description: Downloads a consistent SQLite snapshot of the ledger
// @Response: Binary database file
func (s *Service) HandleExportDownload(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, http.StatusNotImplemented, "Snapshot export not supported by this store")
		return
	}

	data, err := s.exporter.ExportSnapshot()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to export snapshot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="bridge-snapshot.db"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
