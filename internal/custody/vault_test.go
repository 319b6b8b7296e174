package custody

import (
	"errors"
	"math"
	"testing"
)

func TestDebitInsufficientFunds(t *testing.T) {
	v := NewVault()
	if err := v.Credit("alice", "T", 100); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	if err := v.Debit("alice", "T", 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	if bal := v.Balance("alice", "T"); bal != 100 {
		t.Errorf("Failed debit mutated balance: %d", bal)
	}

	if err := v.Debit("alice", "T", 100); err != nil {
		t.Errorf("Exact debit failed: %v", err)
	}
	if bal := v.Balance("alice", "T"); bal != 0 {
		t.Errorf("Expected zero balance, got %d", bal)
	}
}

func TestCreditOverflow(t *testing.T) {
	v := NewVault()
	if err := v.Credit("alice", "T", math.MaxUint64); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	if err := v.Credit("alice", "T", 1); !errors.Is(err, ErrBalanceOverflow) {
		t.Errorf("Expected ErrBalanceOverflow, got %v", err)
	}
	if bal := v.Balance("alice", "T"); bal != math.MaxUint64 {
		t.Errorf("Failed credit mutated balance: %d", bal)
	}
}

func TestBalancesAreScopedPerToken(t *testing.T) {
	v := NewVault()
	v.Credit("alice", "T", 10)
	v.Credit("alice", "U", 20)
	v.Credit("bob", "T", 30)

	if v.Balance("alice", "T") != 10 || v.Balance("alice", "U") != 20 || v.Balance("bob", "T") != 30 {
		t.Error("Balances leaked across accounts or tokens")
	}
}
