// Package ledger implements the value-transfer facility the admission
// protocol charges creation fees through. The in-memory implementation
// keeps balances and a transfer log so tests and local deployments can
// assert on recorded fee movements.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sponsorreg/internal/registry/models"
)

// ErrInsufficientBalance is returned when the payer cannot cover the
// transfer. The registry surfaces it as a transfer failure and commits
// nothing.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Transfer is one recorded value movement.
type Transfer struct {
	Amount uint64
	From   models.Principal
	To     models.Principal
}

// InMemory is a balance ledger. Transfers debit and credit atomically
// under one lock; a failed transfer records nothing.
type InMemory struct {
	mu             sync.Mutex
	balances       map[models.Principal]uint64
	defaultBalance uint64
	transfers      []Transfer
}

// Option configures an InMemory ledger.
type Option func(*InMemory)

// WithDefaultBalance gives every principal not yet seen an opening
// balance, the way a testnet faucet seeds accounts. Local deployments use
// this so fee transfers can succeed without manual crediting.
func WithDefaultBalance(amount uint64) Option {
	return func(l *InMemory) {
		l.defaultBalance = amount
	}
}

func NewInMemory(opts ...Option) *InMemory {
	l := &InMemory{balances: make(map[models.Principal]uint64)}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Credit adds funds to a principal. Used for seeding test and local
// environments; a real deployment fronts an actual chain.
func (l *InMemory) Credit(principal models.Principal, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[principal] = l.balanceLocked(principal) + amount
}

// Transfer moves amount from one principal to another, failing atomically
// when the payer's balance is short.
func (l *InMemory) Transfer(_ context.Context, amount uint64, from, to models.Principal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balanceLocked(from) < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, ErrInsufficientBalance)
	}
	l.balances[from] = l.balanceLocked(from) - amount
	l.balances[to] = l.balanceLocked(to) + amount
	l.transfers = append(l.transfers, Transfer{Amount: amount, From: from, To: to})
	return nil
}

// BalanceOf returns the current balance of a principal.
func (l *InMemory) BalanceOf(principal models.Principal) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(principal)
}

func (l *InMemory) balanceLocked(principal models.Principal) uint64 {
	if balance, ok := l.balances[principal]; ok {
		return balance
	}
	return l.defaultBalance
}

// Transfers returns a snapshot of all recorded transfers in order.
func (l *InMemory) Transfers() []Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Transfer{}, l.transfers...)
}
