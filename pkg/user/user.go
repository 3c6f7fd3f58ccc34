// Package user provides a read-only employee directory. Registration and
// credential storage belong to the external identity service; the admin
// surface only needs to resolve user IDs to display names and enumerate
// employees.
package user

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// User is one directory entry.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory defines read-only access to the employee directory.
type Directory interface {
	// Lookup returns the user with the given ID. Returns nil, nil if no
	// such user exists.
	Lookup(ctx context.Context, id string) (*User, error)

	// List returns all users ordered by name.
	List(ctx context.Context) ([]*User, error)
}

// MemoryDirectory implements Directory from a fixed user set. Used in
// tests and when running without a database.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryDirectory creates a directory holding the given users.
func NewMemoryDirectory(users ...*User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]*User, len(users))}
	for _, u := range users {
		copied := *u
		d.users[u.ID] = &copied
	}
	return d
}

// Lookup returns the user with the given ID.
func (d *MemoryDirectory) Lookup(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, nil //nolint:nilnil // Directory interface specifies nil,nil for not-found
	}
	copied := *u
	return &copied, nil
}

// List returns all users ordered by name.
func (d *MemoryDirectory) List(_ context.Context) ([]*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*User, 0, len(d.users))
	for _, u := range d.users {
		copied := *u
		result = append(result, &copied)
	}
	slices.SortFunc(result, func(a, b *User) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}

// Verify interface compliance.
var _ Directory = (*MemoryDirectory)(nil)
