// Package web implements the HTTP surface of the hub: the JSON API used by
// the contract dispatch layer and operators, the websocket event feed that
// relayers subscribe to, and rendered protocol documentation for relayer
// authors.
package web

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/api"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/docs"
)

// Server is the web server for the API and relayer event feed.
type Server struct {
	port       int
	apiService *api.Service
	docService *docs.Service
	broker     *eventBroker
}

// NewServer creates a new web server. The API service is attached with
// SetAPIService once the ledger exists; the server's EventSink must be wired
// into the emitter for the websocket feed to carry events.
func NewServer(docService *docs.Service, port int) *Server {
	return &Server{
		port:       port,
		docService: docService,
		broker:     newEventBroker(),
	}
}

// SetAPIService attaches the API service. Must be called before Start.
func (s *Server) SetAPIService(apiService *api.Service) {
	s.apiService = apiService
}

// EventSink returns the sink that feeds connected websocket clients.
func (s *Server) EventSink() interface{ Publish([]byte) } {
	return s.broker
}

// Start initializes and runs the web server.
func (s *Server) Start() <-chan error {
	log.Printf("Web: starting API server on http://localhost:%d", s.port)

	mux := http.NewServeMux()

	// API routes (delegated to apiService)
	mux.HandleFunc("/api/health", s.apiService.HandleHealth)
	mux.HandleFunc("/api/version", s.apiService.HandleVersion)
	mux.HandleFunc("/api/lock", s.apiService.HandleLock)
	mux.HandleFunc("/api/unlock", s.apiService.HandleUnlock)
	mux.HandleFunc("/api/messages", s.apiService.HandleMessages)
	mux.HandleFunc("/api/messages/get", s.apiService.HandleMessage)
	mux.HandleFunc("/api/stats", s.apiService.HandleStats)
	mux.HandleFunc("/api/audit", s.apiService.HandleAudit)
	mux.HandleFunc("/api/events", s.apiService.HandleEvents)
	mux.HandleFunc("/api/custody/fund", s.apiService.HandleFund)
	mux.HandleFunc("/api/custody/balance", s.apiService.HandleBalance)
	mux.HandleFunc("/api/export/download", s.apiService.HandleExportDownload)

	// Relayer-facing routes
	mux.HandleFunc("/ws/events", s.handleEventsWS)
	mux.HandleFunc("/docs", s.handleDocsList)
	mux.HandleFunc("/docs/view", s.handleDocView)

	addr := fmt.Sprintf(":%d", s.port)
	errCh := make(chan error, 1)

	go func() {
		err := http.ListenAndServe(addr, mux)
		errCh <- err
		close(errCh)
	}()

	return errCh
}

// handleEventsWS streams EVENT_JSON lines to a relayer over a websocket.
// Lines emitted before the connection was opened are not replayed; relayers
// needing history should read the durable event log or /api/events.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	// The upgrader replies to the client itself when the handshake fails.
	conn, ok := tryGorillaUpgrade(w, r)
	if !ok {
		return
	}
	defer conn.Close()

	client := make(chan []byte, 64)
	s.broker.register(client)
	defer s.broker.unregister(client)

	for line := range client {
		if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return
		}
	}
}

func (s *Server) handleDocsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.docService.ListDocs()
	if err != nil {
		http.Error(w, "Failed to list docs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h1>MetaBridge Hub Documentation</h1><ul>")
	for _, name := range list {
		fmt.Fprintf(w, `<li><a href="/docs/view?name=%s">%s</a></li>`, name, name)
	}
	fmt.Fprint(w, "</ul></body></html>")
}

func (s *Server) handleDocView(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Doc name is required", http.StatusBadRequest)
		return
	}

	html, err := s.docService.GetDoc(r.Context(), name)
	if err != nil {
		http.Error(w, "Doc not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
