// Package session holds the process-wide session state: the currently
// authenticated manager identity and the last-fetched loan list. The
// state object is created in main and passed explicitly to whoever
// needs it; there are no package-level globals.
package session

import (
	"sync"
	"time"

	"loanbridge/internal/adapters/persistence/models"
)

// Identity is the opaque reference to an authenticated manager.
// A nil *Identity means "no one".
type Identity struct {
	UserID uint
	Email  string
	Name   string
}

// Authenticated reports whether the identity refers to a logged-in manager
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID != 0
}

// State caches the current identity and the last-fetched loan list.
// The list is refreshed explicitly, never polled. Clearing the identity
// empties the cached list immediately so no stale data survives logout.
type State struct {
	mu          sync.RWMutex
	identity    *Identity
	loans       []*models.LoanApplication
	refreshedAt time.Time
}

// NewState creates an empty session state
func NewState() *State {
	return &State{}
}

// SetIdentity records a successful login
func (s *State) SetIdentity(ident *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = ident
}

// ClearIdentity tears down the session on logout. The cached loan list
// is dropped in the same critical section.
func (s *State) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.loans = nil
	s.refreshedAt = time.Time{}
}

// Identity returns the current identity, or nil when no one is logged in
func (s *State) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SetLoans replaces the cached loan list after an explicit refresh
func (s *State) SetLoans(loans []*models.LoanApplication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans = loans
	s.refreshedAt = time.Now()
}

// Loans returns the cached loan list and when it was last refreshed
func (s *State) Loans() ([]*models.LoanApplication, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loans, s.refreshedAt
}
