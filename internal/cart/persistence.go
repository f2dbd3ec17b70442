package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/redis"
)

// Persister stores and restores the full cart state.
type Persister interface {
	Save(ctx context.Context, state State) error
	Load(ctx context.Context) (State, bool, error)
}

// KV is the key-value surface cart persistence needs; satisfied by
// pkg/redis.Client.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(sessionID string) string
}

type kvPersister struct {
	kv   KV
	key  string
	ttl  time.Duration
	logg *logger.Logger
}

// NewKVPersister persists the cart under a fixed namespaced key in the
// provided key-value store, overwriting the whole state on every save.
func NewKVPersister(kv KV, key string, ttl time.Duration, logg *logger.Logger) Persister {
	return &kvPersister{kv: kv, key: key, ttl: ttl, logg: logg}
}

func (p *kvPersister) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, p.key, string(payload), p.ttl)
}

func (p *kvPersister) Load(ctx context.Context) (State, bool, error) {
	raw, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, false, nil
		}
		return State{}, false, err
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupt payloads fall back to an empty cart rather than
		// breaking the session.
		if p.logg != nil {
			p.logg.Error(ctx, "discarding unreadable cart state", err)
		}
		return State{}, false, nil
	}
	return state, true, nil
}

// MemoryPersister keeps cart state in process memory. Used in development mode
// and in tests where no Redis is available.
type MemoryPersister struct {
	mu    sync.Mutex
	state *State
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Save(_ context.Context, state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := state
	p.state = &copied
	return nil
}

func (p *MemoryPersister) Load(_ context.Context) (State, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return State{}, false, nil
	}
	return *p.state, true, nil
}
