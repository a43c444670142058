package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSignupNotFound is returned when no pending signup exists for an email,
// including when it has expired.
var ErrSignupNotFound = errors.New("no pending signup for this email or code expired")

// PendingSignup is an account waiting for its e-mail to be confirmed.
type PendingSignup struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"password_hash"`
	CodeHash     string `json:"code_hash"`
	Attempts     int    `json:"attempts"`
}

// PendingStore keeps pending signups keyed by e-mail with a time-to-live.
// Put replaces any earlier signup for the same address.
type PendingStore interface {
	Put(ctx context.Context, p *PendingSignup, ttl time.Duration) error
	// Get returns ErrSignupNotFound when the entry is missing or expired.
	Get(ctx context.Context, email string) (*PendingSignup, error)
	// Update rewrites the entry keeping its remaining lifetime.
	Update(ctx context.Context, p *PendingSignup) error
	Delete(ctx context.Context, email string) error
}

type memoryEntry struct {
	signup    PendingSignup
	expiresAt time.Time
}

// MemoryPendingStore is a process-local PendingStore for single-instance
// deployments and tests.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryPendingStore creates an empty store.
func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryPendingStore) Put(_ context.Context, p *PendingSignup, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.entries[p.Email] = memoryEntry{signup: *p, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryPendingStore) Get(_ context.Context, email string) (*PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.entries, email)
		return nil, ErrSignupNotFound
	}
	signup := entry.signup
	return &signup, nil
}

func (s *MemoryPendingStore) Update(_ context.Context, p *PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[p.Email]
	if !ok || !s.now().Before(entry.expiresAt) {
		return ErrSignupNotFound
	}
	entry.signup = *p
	s.entries[p.Email] = entry
	return nil
}

func (s *MemoryPendingStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// evictExpired must be called with mu held.
func (s *MemoryPendingStore) evictExpired() {
	now := s.now()
	for email, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, email)
		}
	}
}

// RedisPendingStore keeps pending signups in Redis so they survive restarts
// and are shared between instances. Expiry is delegated to Redis key TTLs.
type RedisPendingStore struct {
	client *redis.Client
	prefix string
}

// NewRedisPendingStore wraps client. Keys are "settleup:signup:<email>".
func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{client: client, prefix: "settleup:signup:"}
}

func (s *RedisPendingStore) key(email string) string {
	return s.prefix + email
}

func (s *RedisPendingStore) Put(ctx context.Context, p *PendingSignup, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending signup: %w", err)
	}
	if err := s.client.Set(ctx, s.key(p.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending signup: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Get(ctx context.Context, email string) (*PendingSignup, error) {
	data, err := s.client.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSignupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending signup: %w", err)
	}
	var p PendingSignup
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending signup: %w", err)
	}
	return &p, nil
}

func (s *RedisPendingStore) Update(ctx context.Context, p *PendingSignup) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending signup: %w", err)
	}
	// XX keeps the write from resurrecting an expired entry; KeepTTL leaves the expiry alone.
	ok, err := s.client.SetArgs(ctx, s.key(p.Email), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Result()
	if errors.Is(err, redis.Nil) || (err == nil && ok != "OK") {
		return ErrSignupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update pending signup: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending signup: %w", err)
	}
	return nil
}
