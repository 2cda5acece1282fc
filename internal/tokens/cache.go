package tokens

import (
	"context"
	"sync"
	"time"
)

// RefreshTokenCache is the process-wide map from refresh-token string
// to refresh-token record. Upserts are last-writer-wins; callers never
// need external locking.
type RefreshTokenCache struct {
	mu     sync.RWMutex
	tokens map[string]*RefreshToken
}

func NewRefreshTokenCache() *RefreshTokenCache {
	return &RefreshTokenCache{
		tokens: make(map[string]*RefreshToken),
	}
}

// Upsert adds or overwrites the entry keyed by the token string.
func (c *RefreshTokenCache) Upsert(token *RefreshToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[token.TokenString] = token
}

// Get looks up a refresh token by its string value.
func (c *RefreshTokenCache) Get(tokenString string) (*RefreshToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[tokenString]
	return token, ok
}

// Delete removes the entry keyed by the token string, if present.
func (c *RefreshTokenCache) Delete(tokenString string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, tokenString)
}

// Len returns the number of cached refresh tokens.
func (c *RefreshTokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}

// SweepExpired drops every entry whose expiry is strictly before now
// and returns how many were removed.
func (c *RefreshTokenCache) SweepExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, token := range c.tokens {
		if token.ExpireAt.Before(now) {
			delete(c.tokens, key)
			removed++
		}
	}
	return removed
}

// sweepLoop periodically evicts expired entries until ctx is done.
func (c *RefreshTokenCache) sweepLoop(ctx context.Context, interval time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SweepExpired(now())
		}
	}
}
