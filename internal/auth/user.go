// Package auth issues and verifies bearer tokens for the demo user directory.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is the public view of an account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Credential is a user plus the plaintext password used to seed a store.
type Credential struct {
	User     User
	Password string
}

// DemoUsers returns the single built-in account.
func DemoUsers() []Credential {
	return []Credential{
		{
			User:     User{ID: 1, Username: "user@example.com", Name: "John Doe"},
			Password: "password123",
		},
	}
}

var errUserNotFound = errors.New("user not found")

type account struct {
	user User
	hash []byte
}

// MemoryUserStore keeps bcrypt-hashed accounts in memory.
type MemoryUserStore struct {
	accounts map[string]account
	mu       sync.RWMutex
}

// NewMemoryUserStore hashes each credential with the given bcrypt cost.
func NewMemoryUserStore(creds []Credential, cost int) (*MemoryUserStore, error) {
	s := &MemoryUserStore{accounts: make(map[string]account, len(creds))}
	for _, c := range creds {
		if err := s.Add(c, cost); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add hashes and stores a credential. Usernames match exactly.
func (s *MemoryUserStore) Add(c Credential, cost int) error {
	if c.User.Username == "" {
		return fmt.Errorf("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
	if err != nil {
		return fmt.Errorf("hashing password for %s: %w", c.User.Username, err)
	}

	key := c.User.Username
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.accounts[key]; dup {
		return fmt.Errorf("duplicate username %q", c.User.Username)
	}
	s.accounts[key] = account{user: c.User, hash: hash}
	return nil
}

// Authenticate returns the user when username and password match.
func (s *MemoryUserStore) Authenticate(_ context.Context, username, password string) (User, error) {
	s.mu.RLock()
	acc, ok := s.accounts[username]
	s.mu.RUnlock()
	if !ok {
		return User{}, errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return User{}, fmt.Errorf("password mismatch: %w", err)
	}
	return acc.user, nil
}

// Lookup returns the account with the given username.
func (s *MemoryUserStore) Lookup(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[username]
	if !ok {
		return User{}, errUserNotFound
	}
	return acc.user, nil
}
