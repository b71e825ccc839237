package cart

import (
	"context"
	"errors"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/cart/cache"
	"github.com/Bipin-Neupane/baby-sub001/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SessionManager layers cross-request cart persistence on top of Store.
// Each request loads its own Store from the latest snapshot and saves the
// whole snapshot back; concurrent tabs resolve last-write-wins. The Store
// itself stays free of any synchronization.
type SessionManager struct {
	repo   Repository
	cache  cache.CartCache
	logger *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewSessionManager(repo Repository, cache cache.CartCache, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Load returns a Store built from the session's latest snapshot. A session
// with no persisted cart gets a fresh empty one.
func (m *SessionManager) Load(ctx context.Context, sessionID string) (*Store, error) {
	v, err, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		snapshot, err := m.cache.Get(ctx, sessionID)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			m.logger.Warn("cart cache get failed", zap.String("session_id", sessionID), zap.Error(err))
		}

		snapshot, err = m.repo.GetCart(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			return (*domain.Cart)(nil), nil
		}
		if err != nil {
			return nil, err
		}

		go func() {
			if err := m.cache.Set(context.Background(), sessionID, snapshot); err != nil {
				m.logger.Warn("cart cache set failed", zap.String("session_id", sessionID), zap.Error(err))
			}
		}()

		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	return NewStoreFromSnapshot(v.(*domain.Cart)), nil
}

// Save persists the store's snapshot for the session, replacing whatever
// was there before.
func (m *SessionManager) Save(ctx context.Context, sessionID string, store *Store) error {
	if err := m.repo.UpsertCart(ctx, store.Snapshot(sessionID)); err != nil {
		return err
	}
	m.invalidate(sessionID)
	return nil
}

// Clear drops the session's persisted cart. Clearing a session that never
// saved a cart is not an error.
func (m *SessionManager) Clear(ctx context.Context, sessionID string) error {
	err := m.repo.DeleteCart(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return err
	}
	m.invalidate(sessionID)
	return nil
}

func (m *SessionManager) invalidate(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.cache.Delete(ctx, sessionID); err != nil {
		m.logger.Warn("cart cache invalidate failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
