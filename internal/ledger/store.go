package ledger

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"
)

// Store is the persistence boundary for lock and unlock records. The ledger
// is the only writer; implementations must make ConsumeLock atomic so a lock
// can never be consumed twice even across process restarts.
type Store interface {
	// GetLock returns the lock record for a message id, or types.ErrNotFound.
	GetLock(messageID string) (*types.LockRecord, error)
	// PutLock persists a new lock record. The message id must be unused.
	PutLock(rec *types.LockRecord) error
	// ConsumeLock marks the lock consumed and persists the unlock record as
	// one transition. It fails if the lock is missing or already consumed.
	ConsumeLock(messageID string, unlock *types.UnlockRecord) error
	// GetUnlock returns the unlock record for a message id, or types.ErrNotFound.
	GetUnlock(messageID string) (*types.UnlockRecord, error)
	// ListLocks returns all lock records ordered by nonce.
	ListLocks() ([]types.LockRecord, error)
	// LastNonce returns the highest nonce ever persisted, zero if none.
	LastNonce() (uint64, error)
	// Stats summarizes the ledger contents.
	Stats() (*types.MessageStats, error)
}

// MemStore is an in-memory Store used by unit tests and by deployments that
// do not need durability across restarts.
type MemStore struct {
	mu      sync.RWMutex
	locks   map[string]types.LockRecord
	unlocks map[string]types.UnlockRecord
	nonce   uint64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		locks:   make(map[string]types.LockRecord),
		unlocks: make(map[string]types.UnlockRecord),
	}
}

func (m *MemStore) GetLock(messageID string) (*types.LockRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.locks[messageID]
	if !ok {
		return nil, types.ErrNotFound
	}
	recCopy := rec
	return &recCopy, nil
}

func (m *MemStore) PutLock(rec *types.LockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locks[rec.MessageID]; ok {
		return fmt.Errorf("duplicate message id: %s", rec.MessageID)
	}
	m.locks[rec.MessageID] = *rec
	if rec.Nonce > m.nonce {
		m.nonce = rec.Nonce
	}
	return nil
}

func (m *MemStore) ConsumeLock(messageID string, unlock *types.UnlockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.locks[messageID]
	if !ok {
		return types.ErrNotFound
	}
	if rec.Consumed {
		return fmt.Errorf("lock already consumed: %s", messageID)
	}
	rec.Consumed = true
	m.locks[messageID] = rec
	m.unlocks[messageID] = *unlock
	return nil
}

func (m *MemStore) GetUnlock(messageID string) (*types.UnlockRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.unlocks[messageID]
	if !ok {
		return nil, types.ErrNotFound
	}
	recCopy := rec
	return &recCopy, nil
}

func (m *MemStore) ListLocks() ([]types.LockRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locks := make([]types.LockRecord, 0, len(m.locks))
	for _, rec := range m.locks {
		locks = append(locks, rec)
	}
	sort.Slice(locks, func(i, j int) bool { return locks[i].Nonce < locks[j].Nonce })
	return locks, nil
}

func (m *MemStore) LastNonce() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nonce, nil
}

func (m *MemStore) Stats() (*types.MessageStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &types.MessageStats{}
	volume := new(big.Int)
	for _, rec := range m.locks {
		stats.TotalLocks++
		if rec.Consumed {
			stats.CompletedUnlocks++
		} else {
			stats.ActiveLocks++
		}
		volume.Add(volume, new(big.Int).SetUint64(rec.Amount))
		if stats.LastLockedAt == nil || rec.CreatedAt.After(*stats.LastLockedAt) {
			created := rec.CreatedAt
			stats.LastLockedAt = &created
		}
	}
	for _, rec := range m.unlocks {
		if stats.LastUnlockedAt == nil || rec.CreatedAt.After(*stats.LastUnlockedAt) {
			created := rec.CreatedAt
			stats.LastUnlockedAt = &created
		}
	}
	stats.TotalVolumeLocked = volume.String()
	return stats, nil
}
