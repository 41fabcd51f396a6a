// Package kvstore provides durable JSON key-value storage over the mono Storage interface.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono/pkg/storage"
)

// Store defines the key-value operations used by consumers.
type Store interface {
	// Get reads key and unmarshals it into dest.
	// Returns false when the key does not exist.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// GetRaw reads the stored bytes for key. A missing key yields nil.
	GetRaw(ctx context.Context, key string) ([]byte, error)

	// Set marshals value as JSON and stores it without expiry.
	Set(ctx context.Context, key string, value any) error

	// SetWithTTL marshals value as JSON and stores it for ttl.
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Close closes the underlying storage connection.
	Close() error
}

type store struct {
	storage storage.Storage
	prefix  string
}

// NewStore creates a Store wrapping s. Every key is stored under prefix.
func NewStore(s storage.Storage, prefix string) Store {
	return &store{
		storage: s,
		prefix:  prefix,
	}
}

func (s *store) GetRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := s.storage.GetWithContext(ctx, s.prefix+key)
	if err != nil {
		return nil, fmt.Errorf("kvstore get %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (s *store) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.GetRaw(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("kvstore unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *store) Set(ctx context.Context, key string, value any) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

func (s *store) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore marshal %s: %w", key, err)
	}
	if err := s.storage.SetWithContext(ctx, s.prefix+key, data, ttl); err != nil {
		return fmt.Errorf("kvstore set %s: %w", key, err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.storage.DeleteWithContext(ctx, s.prefix+key); err != nil {
		return fmt.Errorf("kvstore delete %s: %w", key, err)
	}
	return nil
}

func (s *store) Close() error {
	return s.storage.Close()
}
