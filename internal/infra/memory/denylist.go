package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
)

// TokenDenylist guarda jti revogados até a expiração do token.
type TokenDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[jti] = d.now().Add(ttl)
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !d.now().Before(until) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}

var _ account.Denylist = (*TokenDenylist)(nil)
