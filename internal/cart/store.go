package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/redis/go-redis/v9"
)

// StorageName namespaces every persisted session record.
const StorageName = "barukh-sagit-storage"

func Key(sessionID string) string {
	return fmt.Sprintf("%s:%s", StorageName, sessionID)
}

// RedisStore keeps session state as JSON under Key(sessionID), expiring ttl after the last save.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (State, error) {
	raw, err := r.client.Get(ctx, Key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading %s: %w", Key(sessionID), err)
	}
	return decodeState(sessionID, []byte(raw)), nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := r.client.Set(ctx, Key(sessionID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", Key(sessionID), err)
	}
	return nil
}

// MemoryStore is a process-local Store, used when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (State, error) {
	m.mu.Lock()
	raw, ok := m.records[Key(sessionID)]
	m.mu.Unlock()
	if !ok {
		return NewState(), nil
	}
	return decodeState(sessionID, raw), nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	m.mu.Lock()
	m.records[Key(sessionID)] = b
	m.mu.Unlock()
	return nil
}

// decodeState never fails: an unreadable record starts the session over, and lines
// or locales that could not have been written by a Session are dropped.
func decodeState(sessionID string, raw []byte) State {
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		slog.Warn("discarding unreadable session state", slog.String(logkey.Session, sessionID), slog.String(logkey.ERROR, err.Error()))
		return NewState()
	}
	if !st.Locale.Valid() {
		st.Locale = i18n.Default
	}
	items := make([]LineItem, 0, len(st.Cart))
	for _, it := range st.Cart {
		if it.Quantity > 0 {
			items = append(items, it)
		}
	}
	st.Cart = items
	return st
}
