// Package main is the entry point for the MetaBridge hub.
// It initializes the record store, custody vault, ledger, event emitter, and
// web server, then serves until interrupted.
package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/api"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/audit"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/config"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/custody"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/docs"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/events"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/identity"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/ledger"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/store"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/web"
)

func main() {
	log.Println("MetaBridge hub starting...")

	cfg, _ := config.LoadConfig(os.Getenv("CONFIG_FILE"))

	// Instance identity anchors message id derivation
	id, err := identity.LoadOrCreateIdentity(cfg.KeyFile)
	if err != nil {
		log.Fatalf("Failed to load instance identity: %v", err)
	}
	log.Printf("Instance identity: %s", id.PublicKeyHex())

	// Durable record store
	recordStore, err := store.NewStore(cfg.DBFile)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer recordStore.Close()
	log.Println("Record store initialized")

	// Custody vault stands in for the host chain's token contracts
	vault := custody.NewVault()

	port := resolvePort(cfg.Port)
	if err := ensurePortAvailable(port); err != nil {
		log.Fatalf("Port %d unavailable: %v", port, err)
	}

	// Event emitter: process log, durable event log, recent-events buffer,
	// and the websocket feed
	recent := events.NewCaptureSink(cfg.MaxEventBuffer)
	trail := audit.New(cfg.MaxAuditEntries)
	docService := docs.NewService(cfg.DocsDir)

	// The web server's broker is a sink, so build the server before the
	// emitter and attach the API service once the ledger exists.
	server := web.NewServer(docService, port)
	emitter := events.NewEmitter(events.LogSink{}, events.NewFileSink(cfg.EventLogFile), recent, server.EventSink())

	lgr, err := ledger.New(recordStore, vault, emitter, id.PublicKeyHex())
	if err != nil {
		log.Fatalf("Failed to initialize ledger: %v", err)
	}

	server.SetAPIService(api.NewService(lgr, recordStore, vault, trail, recent, recordStore))

	serverErrors := server.Start()
	go func() {
		if err := <-serverErrors; err != nil {
			log.Fatalf("Web server exited: %v", err)
		}
	}()
	log.Printf("Hub API available at http://localhost:%d", port)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
}

func resolvePort(defaultPort int) int {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		return defaultPort
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		log.Printf("Warning: invalid PORT value %q, using %d", portStr, defaultPort)
		return defaultPort
	}

	return port
}

func ensurePortAvailable(port int) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return listener.Close()
}
