package memory

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
)

// KeyedLocker é um lock.Manager de processo único: um semáforo por chave.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[lock.Key]*keyEntry
}

type keyEntry struct {
	sem  chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{entries: make(map[lock.Key]*keyEntry)}
}

func (l *KeyedLocker) WithLock(
	ctx context.Context,
	keys []lock.Key,
	fn func(ctx context.Context) error,
) error {
	keys = lock.Normalize(keys)

	acquired := make([]lock.Key, 0, len(keys))
	defer func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.release(acquired[i])
		}
	}()

	for _, k := range keys {
		if err := l.acquire(ctx, k); err != nil {
			return err
		}
		acquired = append(acquired, k)
	}

	return fn(ctx)
}

func (l *KeyedLocker) acquire(ctx context.Context, k lock.Key) error {
	l.mu.Lock()
	e, ok := l.entries[k]
	if !ok {
		e = &keyEntry{sem: make(chan struct{}, 1)}
		l.entries[k] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(k)
		return ctx.Err()
	}
}

func (l *KeyedLocker) release(k lock.Key) {
	l.mu.Lock()
	e := l.entries[k]
	l.mu.Unlock()

	<-e.sem
	l.unref(k)
}

// unref remove a entrada quando ninguém mais espera por ela.
func (l *KeyedLocker) unref(k lock.Key) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[k]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, k)
	}
}

var _ lock.Manager = (*KeyedLocker)(nil)
