// Package consent records the cookie consent flag per visitor session.
package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
)

// FlagName is the name of the stored consent flag.
const FlagName = "cookieConsent"

// DefaultTTL keeps a consent for a year.
const DefaultTTL = 365 * 24 * time.Hour

// ErrSessionRequired is returned when no session id is given.
var ErrSessionRequired = errors.New("session id is required")

// Service stores consent flags in the key-value store.
type Service struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewService creates a consent service. A non-positive ttl means DefaultTTL.
func NewService(store kvstore.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl}
}

func key(session string) string {
	return FlagName + ":" + session
}

// Grant records consent for session.
func (s *Service) Grant(ctx context.Context, session string) error {
	if session == "" {
		return ErrSessionRequired
	}
	if err := s.store.SetWithTTL(ctx, key(session), "true", s.ttl); err != nil {
		return fmt.Errorf("failed to store consent: %w", err)
	}
	return nil
}

// Granted reports whether session has given consent. Storage errors read
// as not granted.
func (s *Service) Granted(ctx context.Context, session string) (bool, error) {
	if session == "" {
		return false, nil
	}
	var v string
	found, err := s.store.Get(ctx, key(session), &v)
	if err != nil {
		return false, fmt.Errorf("failed to read consent: %w", err)
	}
	return found && v == "true", nil
}
