// Package ledger implements the lock/unlock accounting core of the bridge.
// It is the only component that decides when a lock is valid, matches unlock
// requests to prior locks, and prevents replay and double-unlock. Every
// accepted transition is handed to the event emitter strictly after the store
// commit, so relayers never observe a phantom event.
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"
)

// Custody is the external balance collaborator. Debit reserves tokens from an
// account before a lock commits; Credit releases tokens to a recipient after
// an unlock commits.
type Custody interface {
	Debit(account, token string, amount uint64) error
	Credit(account, token string, amount uint64) error
}

// Emitter publishes canonical event records for committed transitions.
// Emission must never fail the surrounding operation.
type Emitter interface {
	EmitLocked(rec *types.LockRecord)
	EmitUnlocked(rec *types.UnlockRecord)
}

// Ledger owns the mapping from message id to lock/unlock records. All
// mutation goes through Lock and Unlock; a single mutex makes each
// validate-then-mutate sequence, including the nonce increment, one
// indivisible step.
type Ledger struct {
	mu         sync.Mutex
	store      Store
	custody    Custody
	emitter    Emitter
	instanceID string
	nonce      uint64
	now        func() time.Time
}

// New creates a ledger over the given store. instanceID distinguishes this
// hub instance in message id derivation; the instance public key hex is the
// conventional choice. The initial nonce is recovered from the store so ids
// stay unique across restarts.
func New(store Store, custody Custody, emitter Emitter, instanceID string) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("ledger requires a store")
	}
	if custody == nil {
		return nil, errors.New("ledger requires a custody collaborator")
	}
	if emitter == nil {
		return nil, errors.New("ledger requires an emitter")
	}

	last, err := store.LastNonce()
	if err != nil {
		return nil, fmt.Errorf("recover nonce: %w", err)
	}

	return &Ledger{
		store:      store,
		custody:    custody,
		emitter:    emitter,
		instanceID: instanceID,
		nonce:      last,
		now:        time.Now,
	}, nil
}

// Lock validates and records a new lock, debits custody, and emits exactly
// one token_locked event. The nonce is reserved only when the lock succeeds;
// a rejected request leaves the ledger untouched.
func (l *Ledger) Lock(sender, token string, amount uint64, destChain, destAddr string) (*types.LockRecord, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if destChain == "" || destAddr == "" {
		return nil, ErrInvalidDestination
	}
	if sender == "" || token == "" {
		return nil, fmt.Errorf("%w: sender and token are required", ErrInvalidDestination)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.custody.Debit(sender, token, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
	}

	nonce := l.nonce + 1
	rec := &types.LockRecord{
		MessageID:          l.deriveMessageID(sender, nonce),
		Sender:             sender,
		TokenContract:      token,
		Amount:             amount,
		DestinationChain:   destChain,
		DestinationAddress: destAddr,
		Nonce:              nonce,
		CreatedAt:          l.now().UTC(),
	}

	if err := l.store.PutLock(rec); err != nil {
		// Roll the custody debit back so a storage failure leaves no
		// partial state.
		_ = l.custody.Credit(sender, token, amount)
		return nil, fmt.Errorf("persist lock: %w", err)
	}
	l.nonce = nonce

	l.emitter.EmitLocked(rec)
	return rec, nil
}

// Unlock matches a claim against the recorded lock for messageID, marks the
// lock consumed together with the new unlock record, credits the recipient,
// and emits exactly one token_unlocked event. Rejections are deterministic
// and side-effect-free: retrying a rejected unlock changes nothing.
func (l *Ledger) Unlock(messageID, sourceChain, senderAddr, recipient string, amount uint64, token string) (*types.UnlockRecord, error) {
	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidDestination)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lock, err := l.store.GetLock(messageID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
		}
		return nil, fmt.Errorf("load lock: %w", err)
	}
	if lock.Consumed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyConsumed, messageID)
	}
	// Mismatched claims are integrity violations: report, never correct.
	if amount != lock.Amount {
		return nil, fmt.Errorf("%w: claimed %d, locked %d", ErrAmountMismatch, amount, lock.Amount)
	}
	if token != lock.TokenContract {
		return nil, fmt.Errorf("%w: claimed %s, locked %s", ErrTokenMismatch, token, lock.TokenContract)
	}

	unlock := &types.UnlockRecord{
		MessageID:     messageID,
		SourceChain:   sourceChain,
		SenderAddress: senderAddr,
		Recipient:     recipient,
		TokenContract: lock.TokenContract,
		Amount:        lock.Amount,
		CreatedAt:     l.now().UTC(),
	}

	if err := l.custody.Credit(recipient, lock.TokenContract, lock.Amount); err != nil {
		return nil, fmt.Errorf("credit recipient: %w", err)
	}

	if err := l.store.ConsumeLock(messageID, unlock); err != nil {
		// Roll the credit back so a storage failure leaves no partial state.
		_ = l.custody.Debit(recipient, lock.TokenContract, lock.Amount)
		return nil, fmt.Errorf("consume lock: %w", err)
	}

	l.emitter.EmitUnlocked(unlock)
	return unlock, nil
}

// Get returns the lock record for a message id.
func (l *Ledger) Get(messageID string) (*types.LockRecord, error) {
	rec, err := l.store.GetLock(messageID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
		}
		return nil, err
	}
	return rec, nil
}

// deriveMessageID builds a globally unique message id from the hub instance,
// the sender, and the nonce. Nonces never repeat, so neither do ids.
func (l *Ledger) deriveMessageID(sender string, nonce uint64) string {
	h := sha256.New()
	h.Write([]byte(l.instanceID))
	h.Write([]byte{0})
	h.Write([]byte(sender))
	h.Write([]byte{0})
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}
