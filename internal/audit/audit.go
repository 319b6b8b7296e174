// Package audit provides a thread-safe in-memory trail of ledger decisions.
// Every accepted and rejected operation is recorded here; replay rejections
// in particular must be auditable even though they never mutate state.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single audit record
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // info, warning, error
	Op        string    `json:"op"`    // lock, unlock
	MessageID string    `json:"message_id,omitempty"`
	Text      string    `json:"text"`
}

// Trail manages in-memory audit entries
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	maxSize int
}

// New creates a new trail with specified max entry count
func New(maxSize int) *Trail {
	return &Trail{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record adds a new entry to the trail
func (t *Trail) Record(level, op, messageID, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Level:     level,
		Op:        op,
		MessageID: messageID,
		Text:      text,
	})

	// Keep only the last maxSize entries
	if len(t.entries) > t.maxSize {
		t.entries = t.entries[len(t.entries)-t.maxSize:]
	}
}

// Accepted records a successful operation
func (t *Trail) Accepted(op, messageID, text string) {
	t.Record("info", op, messageID, text)
}

// Rejected records a validation rejection
func (t *Trail) Rejected(op, messageID, text string) {
	t.Record("warning", op, messageID, text)
}

// Replay records a replay rejection
func (t *Trail) Replay(op, messageID, text string) {
	t.Record("error", op, messageID, text)
}

// GetRecent returns the most recent n entries (newest first)
func (t *Trail) GetRecent(n int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.entries) {
		n = len(t.entries)
	}

	result := make([]Entry, n)
	for i := 0; i < n; i++ {
		result[i] = t.entries[len(t.entries)-1-i]
	}
	return result
}

// GetAll returns all entries (newest first)
func (t *Trail) GetAll() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Entry, len(t.entries))
	for i := 0; i < len(t.entries); i++ {
		result[i] = t.entries[len(t.entries)-1-i]
	}
	return result
}
