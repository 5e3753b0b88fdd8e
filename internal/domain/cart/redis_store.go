// internal/domain/cart/redis_store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// saveScript performs a compare-and-set on the snapshot version so an
// older write that lands late cannot clobber a newer document.
var saveScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local doc = cjson.decode(cur)
	if doc['version'] and tonumber(doc['version']) >= tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// RedisStore persists cart snapshots as JSON documents keyed by identity
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore creates a Redis-backed cart document store
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
	}
}

func (s *RedisStore) key(uid string) string {
	return fmt.Sprintf("%s:user:%s", s.namespace, uid)
}

// Load fetches the snapshot document for the identity
func (s *RedisStore) Load(ctx context.Context, uid string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(uid)).Result()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	return &snap, nil
}

// Save overwrites the snapshot document unless the store already holds a
// newer version, in which case ErrStaleSnapshot is returned.
func (s *RedisStore) Save(ctx context.Context, uid string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	ok, err := saveScript.Run(ctx, s.client, []string{s.key(uid)}, data, snap.Version).Int()
	if err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	if ok == 0 {
		return ErrStaleSnapshot
	}

	return nil
}
