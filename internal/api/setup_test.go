package api

import (
	"os"
	"testing"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/audit"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/custody"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/events"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/ledger"
	"github.com/EmekaIwuagwu/metabridge-hub/internal/store"
)

// setupTest creates a temporary store, ledger, and service for testing
func setupTest(t *testing.T) (*Service, *custody.Vault, func()) {
	t.Helper()

	// Create a temporary file for the database
	tmpDB, err := os.CreateTemp("", "bridge-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp db: %v", err)
	}
	tmpDB.Close() // Close it, NewStore will open it

	recordStore, err := store.NewStore(tmpDB.Name())
	if err != nil {
		os.Remove(tmpDB.Name())
		t.Fatalf("Failed to create store: %v", err)
	}

	vault := custody.NewVault()
	recent := events.NewCaptureSink(100)
	emitter := events.NewEmitter(recent)

	l, err := ledger.New(recordStore, vault, emitter, "test-instance")
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	trail := audit.New(100)
	svc := NewService(l, recordStore, vault, trail, recent, recordStore)

	cleanup := func() {
		recordStore.Close()
		os.Remove(tmpDB.Name())
		os.Remove(tmpDB.Name() + "-wal")
		os.Remove(tmpDB.Name() + "-shm")
	}

	return svc, vault, cleanup
}
