// Package custody implements the balance collaborator the ledger calls
// around lock and unlock. The Vault keeps per (account, token) balances as
// fixed-width unsigned integers with explicit overflow checks; it stands in
// for the host chain's token contracts in standalone deployments and tests.
package custody

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

type balanceKey struct {
	account string
	token   string
}

// Vault is an in-memory custody ledger.
type Vault struct {
	mu       sync.Mutex
	balances map[balanceKey]uint64
}

// NewVault creates an empty vault.
func NewVault() *Vault {
	return &Vault{balances: make(map[balanceKey]uint64)}
}

// Debit removes amount from an account's token balance. It fails without
// mutation if the balance is too small.
func (v *Vault) Debit(account, token string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := balanceKey{account: account, token: token}
	bal := v.balances[key]
	if bal < amount {
		return fmt.Errorf("%w: %s has %d of %s, need %d", ErrInsufficientFunds, account, bal, token, amount)
	}
	v.balances[key] = bal - amount
	return nil
}

// Credit adds amount to an account's token balance. It fails without
// mutation if the balance would overflow.
func (v *Vault) Credit(account, token string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := balanceKey{account: account, token: token}
	bal := v.balances[key]
	if amount > math.MaxUint64-bal {
		return fmt.Errorf("%w: %s of %s", ErrBalanceOverflow, account, token)
	}
	v.balances[key] = bal + amount
	return nil
}

// Balance returns the current balance for an account and token.
func (v *Vault) Balance(account, token string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[balanceKey{account: account, token: token}]
}
