// Package store provides the durable lock/unlock record store backed by
// SQLite. It implements ledger.Store; the consume transition runs inside a
// transaction with a guarded update so a lock can never be consumed twice,
// even by a second process sharing the database file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"

	_ "modernc.org/sqlite"
)

const (
	defaultDBFile    = "bridge.db"
	maxBusyTimeoutMs = 5000
)

// Store persists lock and unlock records to a SQLite database file.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	file string
}

// NewStore opens (or creates) the record store at filePath.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = defaultDBFile
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	s := &Store{file: absPath}

	if err := s.openDB(); err != nil {
		return nil, err
	}

	if err := s.ensureSchema(); err != nil {
		_ = s.db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) openDB() error {
	if err := os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s", filepath.Clean(s.file))

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return fmt.Errorf("set busy timeout: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS lock_records (
		message_id TEXT PRIMARY KEY,
		sender TEXT NOT NULL,
		token_contract TEXT NOT NULL,
		amount TEXT NOT NULL,
		destination_chain TEXT NOT NULL,
		destination_address TEXT NOT NULL,
		nonce INTEGER NOT NULL UNIQUE,
		consumed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create lock_records table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS unlock_records (
		message_id TEXT PRIMARY KEY,
		source_chain TEXT NOT NULL,
		sender_address TEXT NOT NULL,
		recipient TEXT NOT NULL,
		token_contract TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (message_id) REFERENCES lock_records(message_id)
	)`)
	if err != nil {
		return fmt.Errorf("create unlock_records table: %w", err)
	}

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	return nil
}

// GetLock returns the lock record for a message id.
func (s *Store) GetLock(messageID string) (*types.LockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT message_id, sender, token_contract, amount,
		destination_chain, destination_address, nonce, consumed, created_at
		FROM lock_records WHERE message_id = ?`, messageID)

	rec, err := scanLock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// PutLock persists a new lock record.
func (s *Store) PutLock(rec *types.LockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO lock_records (
		message_id, sender, token_contract, amount, destination_chain,
		destination_address, nonce, consumed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		rec.MessageID,
		rec.Sender,
		rec.TokenContract,
		strconv.FormatUint(rec.Amount, 10),
		rec.DestinationChain,
		rec.DestinationAddress,
		rec.Nonce,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert lock record: %w", err)
	}
	return nil
}

// ConsumeLock marks the lock consumed and stores the unlock record as one
// transaction. The guarded UPDATE makes double consumption impossible.
func (s *Store) ConsumeLock(messageID string, unlock *types.UnlockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin consume: %w", err)
	}

	res, err := tx.Exec(`UPDATE lock_records SET consumed = 1
		WHERE message_id = ? AND consumed = 0`, messageID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("mark lock consumed: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		tx.Rollback()
		return fmt.Errorf("lock missing or already consumed: %s", messageID)
	}

	_, err = tx.Exec(`INSERT INTO unlock_records (
		message_id, source_chain, sender_address, recipient, token_contract,
		amount, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		unlock.MessageID,
		unlock.SourceChain,
		unlock.SenderAddress,
		unlock.Recipient,
		unlock.TokenContract,
		strconv.FormatUint(unlock.Amount, 10),
		formatTime(unlock.CreatedAt),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert unlock record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit consume: %w", err)
	}
	return nil
}

// GetUnlock returns the unlock record for a message id.
func (s *Store) GetUnlock(messageID string) (*types.UnlockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT message_id, source_chain, sender_address,
		recipient, token_contract, amount, created_at
		FROM unlock_records WHERE message_id = ?`, messageID)

	var rec types.UnlockRecord
	var amount, createdAt string
	err := row.Scan(&rec.MessageID, &rec.SourceChain, &rec.SenderAddress,
		&rec.Recipient, &rec.TokenContract, &amount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	rec.Amount, err = strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse unlock amount: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// ListLocks returns all lock records ordered by nonce.
func (s *Store) ListLocks() ([]types.LockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT message_id, sender, token_contract, amount,
		destination_chain, destination_address, nonce, consumed, created_at
		FROM lock_records ORDER BY nonce`)
	if err != nil {
		return nil, fmt.Errorf("query lock records: %w", err)
	}
	defer rows.Close()

	var locks []types.LockRecord
	for rows.Next() {
		rec, err := scanLock(rows)
		if err != nil {
			return nil, err
		}
		locks = append(locks, rec)
	}
	return locks, rows.Err()
}

// LastNonce returns the highest nonce ever persisted, zero if none.
func (s *Store) LastNonce() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nonce sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(nonce) FROM lock_records`).Scan(&nonce); err != nil {
		return 0, fmt.Errorf("query last nonce: %w", err)
	}
	if !nonce.Valid {
		return 0, nil
	}
	return uint64(nonce.Int64), nil
}

// Stats summarizes the ledger contents.
func (s *Store) Stats() (*types.MessageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &types.MessageStats{}
	volume := new(big.Int)

	rows, err := s.db.Query(`SELECT amount, consumed, created_at FROM lock_records`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var amount, createdAt string
		var consumed int
		if err := rows.Scan(&amount, &consumed, &createdAt); err != nil {
			return nil, err
		}
		stats.TotalLocks++
		if consumed == 1 {
			stats.CompletedUnlocks++
		} else {
			stats.ActiveLocks++
		}
		if v, ok := new(big.Int).SetString(amount, 10); ok {
			volume.Add(volume, v)
		}
		if ts := parseTime(createdAt); stats.LastLockedAt == nil || ts.After(*stats.LastLockedAt) {
			tsCopy := ts
			stats.LastLockedAt = &tsCopy
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var lastUnlock sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(created_at) FROM unlock_records`).Scan(&lastUnlock); err == nil && lastUnlock.Valid {
		ts := parseTime(lastUnlock.String)
		stats.LastUnlockedAt = &ts
	}

	stats.TotalVolumeLocked = volume.String()
	return stats, nil
}

// ExportSnapshot returns a consistent copy of the current database contents.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.file); errors.Is(err, os.ErrNotExist) {
		return nil, os.ErrNotExist
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.file), "bridge-export-*.db")
	if err != nil {
		return nil, fmt.Errorf("create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()

	escaped := strings.ReplaceAll(tempPath, "'", "''")
	if _, err := s.db.Exec(fmt.Sprintf("VACUUM INTO '%s'", escaped)); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("vacuum into temp file: %w", err)
	}

	data, err := os.ReadFile(tempPath)
	os.Remove(tempPath)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	return data, nil
}

func scanLock(scanner interface{ Scan(dest ...any) error }) (types.LockRecord, error) {
	var rec types.LockRecord
	var amount, createdAt string
	var consumed int

	if err := scanner.Scan(&rec.MessageID, &rec.Sender, &rec.TokenContract,
		&amount, &rec.DestinationChain, &rec.DestinationAddress, &rec.Nonce,
		&consumed, &createdAt); err != nil {
		return types.LockRecord{}, err
	}

	parsed, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return types.LockRecord{}, fmt.Errorf("parse lock amount: %w", err)
	}
	rec.Amount = parsed
	rec.Consumed = consumed == 1
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Time{}
}
