// Package types defines the core domain models for the MetaBridge hub.
// It contains the lock/unlock record models and status constants used across
// the application. Records are created by the ledger and retained forever for
// audit and replay detection.
package types

import (
	"errors"
	"time"
)

// Version is the current version of the hub
const Version = "1.0.0"

// BuildTime is set at build time via -ldflags
var BuildTime = "dev"

// ErrNotFound is returned by stores when no record exists for a message id.
var ErrNotFound = errors.New("record not found")

// LockState represents the lifecycle state of a bridge transfer.
// A message id moves Locked -> Unlocked exactly once; there is no reverse
// path and no other transition.
type LockState string

const (
	StateLocked   LockState = "LOCKED"
	StateUnlocked LockState = "UNLOCKED"
)

// LockRecord is the authoritative record of tokens locked on the source
// chain. It is immutable once created except for the terminal Consumed flag,
// which is set when the matching unlock completes. Records are never deleted.
type LockRecord struct {
	MessageID          string    `json:"message_id"`          // Unique across the lifetime of the hub, never reused
	Sender             string    `json:"sender"`              // Account that locked the tokens
	TokenContract      string    `json:"token_contract"`      // Identity of the token contract
	Amount             uint64    `json:"amount"`              // Locked amount, always > 0
	DestinationChain   string    `json:"destination_chain"`   // Chain the tokens are bridged to
	DestinationAddress string    `json:"destination_address"` // Recipient address on the destination chain
	Nonce              uint64    `json:"nonce"`               // Strictly increasing, reserved only on success
	Consumed           bool      `json:"consumed"`            // Set when the matching unlock commits
	CreatedAt          time.Time `json:"created_at"`
}

// State returns the lifecycle state derived from the consumed flag.
func (r *LockRecord) State() LockState {
	if r.Consumed {
		return StateUnlocked
	}
	return StateLocked
}

// UnlockRecord is created when a matching, unconsumed LockRecord is released.
// Its creation and the lock's consumption commit as one transition.
type UnlockRecord struct {
	MessageID     string    `json:"message_id"`
	SourceChain   string    `json:"source_chain"`
	SenderAddress string    `json:"sender_address"` // Chain-foreign address, string form
	Recipient     string    `json:"recipient"`      // Account credited on this side
	TokenContract string    `json:"token_contract"`
	Amount        uint64    `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// MessageStats summarizes the ledger for the stats endpoint.
type MessageStats struct {
	TotalLocks        int64      `json:"total_locks"`
	ActiveLocks       int64      `json:"active_locks"`
	CompletedUnlocks  int64      `json:"completed_unlocks"`
	TotalVolumeLocked string     `json:"total_volume_locked"` // Decimal string, summed over all locks
	LastLockedAt      *time.Time `json:"last_locked_at,omitempty"`
	LastUnlockedAt    *time.Time `json:"last_unlocked_at,omitempty"`
}
