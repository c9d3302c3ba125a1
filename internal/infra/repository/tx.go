package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn devolve a transação aberta pelo LockManager, se houver.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// ======================================================
// LockManager (advisory locks do Postgres)
// ======================================================

// LockManager abre uma transação e pega pg_advisory_xact_lock para cada
// chave; os locks caem no commit ou rollback.
type LockManager struct {
	db *gorm.DB
}

func NewLockManager(db *gorm.DB) *LockManager {
	return &LockManager{db: db}
}

func (m *LockManager) WithLock(
	ctx context.Context,
	keys []lock.Key,
	fn func(ctx context.Context) error,
) error {

	keys = lock.Normalize(keys)

	acquire := func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := tx.Exec(
				"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
				string(k),
			).Error; err != nil {
				return err
			}
		}
		return nil
	}

	// chamada aninhada reaproveita a transação externa
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		if err := acquire(tx.WithContext(ctx)); err != nil {
			return err
		}
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquire(tx); err != nil {
			return err
		}
		return fn(withTx(ctx, tx))
	})
}

var _ lock.Manager = (*LockManager)(nil)
