package cache

import (
	"context"
	"fmt"
	"time"
)

// SessionStore tracks revoked token identifiers so logout takes effect
// before the JWT's natural expiry.
type SessionStore struct {
	cache Cache
}

// NewSessionStore creates a session store over the shared cache
func NewSessionStore(cache Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

func revocationKey(jti string) string {
	return fmt.Sprintf("session:revoked:%s", jti)
}

// Revoke marks a token id as revoked until its natural expiry
func (s *SessionStore) Revoke(ctx context.Context, jti string, until time.Duration) error {
	if until <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revocationKey(jti), "1", until)
}

// IsRevoked reports whether the token id has been revoked
func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.cache.Exists(ctx, revocationKey(jti))
}
