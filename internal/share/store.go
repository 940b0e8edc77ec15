// Package share issues tokenized read-only statement links. A snapshot
// of the statement is frozen into Redis under a random token with a
// TTL, optionally locked behind a short PIN.
package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/jimohammad/po-sub000/internal/ledger"
)

var (
	// ErrNotFound indicates the token is unknown or expired.
	ErrNotFound = errors.New("share: not found")
	// ErrPINRequired indicates the link is PIN protected and no PIN was given.
	ErrPINRequired = errors.New("share: pin required")
	// ErrPINMismatch indicates the supplied PIN did not match.
	ErrPINMismatch = errors.New("share: pin mismatch")
)

const keyPrefix = "share:statement:"

// Snapshot is the frozen statement stored under a token.
type Snapshot struct {
	PartyName string                   `json:"party_name"`
	Statement ledger.StatementResponse `json:"statement"`
	PINHash   []byte                   `json:"pin_hash,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	ExpiresAt time.Time                `json:"expires_at"`
}

// Store persists snapshots in Redis.
type Store struct {
	client *redis.Client
}

// NewStore constructs a store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Put freezes a snapshot and returns its token. A non-empty pin is
// hashed before storage; the plaintext never reaches Redis.
func (s *Store) Put(ctx context.Context, snap Snapshot, pin string, ttl time.Duration) (string, error) {
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("share: hash pin: %w", err)
		}
		snap.PINHash = hash
	}

	now := time.Now().UTC()
	snap.CreatedAt = now
	snap.ExpiresAt = now.Add(ttl)

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("share: marshal snapshot: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("share: store snapshot: %w", err)
	}
	return token, nil
}

// Get retrieves the snapshot for a token, enforcing the PIN when one
// was set at creation.
func (s *Store) Get(ctx context.Context, token, pin string) (*Snapshot, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("share: fetch snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("share: decode snapshot: %w", err)
	}

	if len(snap.PINHash) > 0 {
		if pin == "" {
			return nil, ErrPINRequired
		}
		if bcrypt.CompareHashAndPassword(snap.PINHash, []byte(pin)) != nil {
			return nil, ErrPINMismatch
		}
	}
	snap.PINHash = nil
	return &snap, nil
}

// Revoke deletes a token before its TTL lapses.
func (s *Store) Revoke(ctx context.Context, token string) error {
	deleted, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("share: revoke: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
