package cart

import (
	"context"
	"time"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
)

// Manager hands out session-scoped cart stores backed by the shared KV store.
type Manager struct {
	kv   KV
	ttl  time.Duration
	logg *logger.Logger
}

// NewManager builds a manager. The TTL bounds how long abandoned carts live.
func NewManager(kv KV, ttl time.Duration, logg *logger.Logger) (*Manager, error) {
	if kv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart kv store required")
	}
	return &Manager{kv: kv, ttl: ttl, logg: logg}, nil
}

// ForSession loads the cart store for the given session, starting empty when
// the session has no persisted cart yet.
func (m *Manager) ForSession(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	persister := NewKVPersister(m.kv, m.kv.CartKey(sessionID), m.ttl, m.logg)
	store, err := NewStore(ctx, persister)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart state")
	}
	return store, nil
}
