package attendance

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore implements Store using in-memory maps. It is used in tests
// and for running the server without a database; it applies the same
// uniqueness and conditional-update rules as the PostgreSQL store.
type MemoryStore struct {
	mu sync.RWMutex
	// sessions is keyed by userID, then dateKey.
	sessions map[string]map[string]*DaySession
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]*DaySession),
	}
}

// Create persists a new session.
func (m *MemoryStore) Create(_ context.Context, s *DaySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	days := m.sessions[s.UserID]
	if days == nil {
		days = make(map[string]*DaySession)
		m.sessions[s.UserID] = days
	}
	if _, exists := days[s.DateKey]; exists {
		return ErrDuplicateDay
	}
	// Mirror the partial unique index: one open session per user, total.
	for _, existing := range days {
		if existing.Status == StatusOpen {
			return ErrDuplicateDay
		}
	}
	days[s.DateKey] = clone(s)
	return nil
}

// GetDay retrieves the session for (userID, dateKey). Returns nil, nil if
// no record exists.
func (m *MemoryStore) GetDay(_ context.Context, userID, dateKey string) (*DaySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID][dateKey]
	if !ok {
		return nil, nil //nolint:nilnil // Store interface specifies nil,nil for not-found
	}
	return clone(s), nil
}

// FindOpen retrieves the user's open session regardless of date.
func (m *MemoryStore) FindOpen(_ context.Context, userID string) (*DaySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions[userID] {
		if s.Status == StatusOpen {
			return clone(s), nil
		}
	}
	return nil, nil //nolint:nilnil // Store interface specifies nil,nil for not-found
}

// SaveBreaks persists the session's break list and running break total.
func (m *MemoryStore) SaveBreaks(_ context.Context, s *DaySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.UserID][s.DateKey]
	if !ok || stored.Status != StatusOpen {
		return ErrNoActiveSession
	}
	stored.Breaks = slices.Clone(s.Breaks)
	stored.TotalBreakMinutes = s.TotalBreakMinutes
	stored.LastModifiedBy = s.LastModifiedBy
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

// CloseDay persists the closed session.
func (m *MemoryStore) CloseDay(_ context.Context, s *DaySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.UserID][s.DateKey]
	if !ok || stored.Status != StatusOpen {
		return ErrNoActiveSession
	}
	stored.Status = StatusClosed
	stored.ClockOut = s.ClockOut
	stored.Breaks = slices.Clone(s.Breaks)
	stored.WorkedMinutes = s.WorkedMinutes
	stored.TotalBreakMinutes = s.TotalBreakMinutes
	stored.LastModifiedBy = s.LastModifiedBy
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

// ListMonth returns the user's sessions for the YYYY-MM month, ordered by
// date key ascending.
func (m *MemoryStore) ListMonth(_ context.Context, userID, monthKey string) ([]*DaySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*DaySession
	for dateKey, s := range m.sessions[userID] {
		if strings.HasPrefix(dateKey, monthKey+"-") {
			result = append(result, clone(s))
		}
	}
	slices.SortFunc(result, func(a, b *DaySession) int {
		return strings.Compare(a.DateKey, b.DateKey)
	})
	return result, nil
}

// clone deep-copies a session so callers never alias stored state.
func clone(s *DaySession) *DaySession {
	c := *s
	c.Breaks = slices.Clone(s.Breaks)
	return &c
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
