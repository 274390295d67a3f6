// Package store persists agreements together with the name index and the
// per-agreement update slot. Both implementations expose only whole-record
// create/replace operations so the name-index bijection cannot be broken by
// partial field mutation.
package store

import (
	"context"
	"fmt"
	"sync"

	"sponsorreg/internal/registry/models"
	"sponsorreg/pkg/platform/sentinel"
)

// InMemory keeps agreements, the name index, and update slots in process
// memory. The id allocator starts at zero and only ever moves forward.
//
// Invariant: every agreement's name maps to exactly that agreement's id in
// names, and every names entry points to a stored agreement whose current
// name equals the key.
type InMemory struct {
	mu         sync.RWMutex
	agreements map[uint64]models.Agreement
	names      map[string]uint64
	updates    map[uint64]models.AgreementUpdate
	nextID     uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		agreements: make(map[uint64]models.Agreement),
		names:      make(map[string]uint64),
		updates:    make(map[uint64]models.AgreementUpdate),
	}
}

// Create admits a new agreement if its name is available, assigns the next
// id, and advances the allocator. The id on the passed record is ignored.
// Returns sentinel.ErrAlreadyUsed when the name is taken.
func (s *InMemory) Create(_ context.Context, agreement models.Agreement) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.names[agreement.Name]; taken {
		return 0, fmt.Errorf("agreement name %q: %w", agreement.Name, sentinel.ErrAlreadyUsed)
	}

	id := s.nextID
	agreement.ID = id
	s.agreements[id] = agreement
	s.names[agreement.Name] = id
	s.nextID++
	return id, nil
}

// Replace swaps in a complete replacement record, reconciles the name index
// on rename, and overwrites the update slot, all under one lock.
//
// Returns sentinel.ErrNotFound when no agreement has the id, and
// sentinel.ErrAlreadyUsed when the new name belongs to a different
// agreement. A no-op rename (name already mapped to this id) proceeds.
func (s *InMemory) Replace(_ context.Context, id uint64, agreement models.Agreement, update models.AgreementUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.agreements[id]
	if !ok {
		return fmt.Errorf("agreement %d: %w", id, sentinel.ErrNotFound)
	}
	if owner, taken := s.names[agreement.Name]; taken && owner != id {
		return fmt.Errorf("agreement name %q: %w", agreement.Name, sentinel.ErrAlreadyUsed)
	}

	if current.Name != agreement.Name {
		delete(s.names, current.Name)
		s.names[agreement.Name] = id
	}
	agreement.ID = id
	s.agreements[id] = agreement
	s.updates[id] = update
	return nil
}

// Find returns the agreement with the given id.
func (s *InMemory) Find(_ context.Context, id uint64) (*models.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agreement, ok := s.agreements[id]
	if !ok {
		return nil, fmt.Errorf("agreement %d: %w", id, sentinel.ErrNotFound)
	}
	return &agreement, nil
}

// FindUpdate returns the latest update slot for the agreement id.
func (s *InMemory) FindUpdate(_ context.Context, id uint64) (*models.AgreementUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	update, ok := s.updates[id]
	if !ok {
		return nil, fmt.Errorf("agreement %d updates: %w", id, sentinel.ErrNotFound)
	}
	return &update, nil
}

// Count returns the value of the id allocator, which equals the number of
// admitted agreements since deletion is not supported.
func (s *InMemory) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}

// NameExists reports whether any agreement currently holds the name.
func (s *InMemory) NameExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok, nil
}
