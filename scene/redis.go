package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/gogpu/wallgen"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Scene namespaces the keys, so several scenes can share a server.
	Scene string
}

const (
	defaultScene = "default"
	maxTxRetries = 8

	eventItems = "items"
	eventReady = "ready"
)

// RedisStore is a Store kept in Redis, shared by every process connected to
// the same scene. Items live in a hash keyed by id, their order in a list
// and readiness in a string. Every change is published on the scene's event
// channel, so subscribers see changes made by other processes too.
//
// Callbacks run on the store's listener goroutine. Updates that leave an
// item's encoding unchanged are not written or published.
type RedisStore struct {
	rdb   *redis.Client
	keys  redisKeys
	owned bool

	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	changes   listeners[[]Item]
	readiness listeners[bool]
}

var _ Store = (*RedisStore)(nil)

type redisKeys struct {
	items, order, ready, events string
}

func newRedisKeys(scene string) redisKeys {
	if scene == "" {
		scene = defaultScene
	}
	prefix := "wallgen:" + scene + ":"
	return redisKeys{
		items:  prefix + "items",
		order:  prefix + "order",
		ready:  prefix + "ready",
		events: prefix + "events",
	}
}

// NewRedisStore connects to Redis and starts listening for scene events.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("scene: redis ping: %w", err)
	}
	s, err := NewRedisStoreFromClient(ctx, rdb, cfg.Scene)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewRedisStoreFromClient uses an existing client. Close does not close the
// client.
func NewRedisStoreFromClient(ctx context.Context, rdb *redis.Client, scene string) (*RedisStore, error) {
	keys := newRedisKeys(scene)
	ps := rdb.Subscribe(ctx, keys.events)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("scene: redis subscribe: %w", err)
	}

	lctx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		rdb:    rdb,
		keys:   keys,
		pubsub: ps,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.listen(lctx, ps.Channel())
	return s, nil
}

func (s *RedisStore) listen(ctx context.Context, ch <-chan *redis.Message) {
	defer close(s.done)
	for msg := range ch {
		switch msg.Payload {
		case eventItems:
			items, err := s.Items(ctx)
			if err != nil {
				if ctx.Err() == nil {
					wallgen.Logger().Warn("scene: redis snapshot failed", "err", err)
				}
				continue
			}
			s.changes.notify(items)
		case eventReady:
			ready, err := s.Ready(ctx)
			if err != nil {
				if ctx.Err() == nil {
					wallgen.Logger().Warn("scene: redis readiness failed", "err", err)
				}
				continue
			}
			s.readiness.notify(ready)
		}
	}
}

// Close stops the listener and, for stores created by NewRedisStore,
// closes the client.
func (s *RedisStore) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = s.pubsub.Close()
		<-s.done
		if s.owned {
			if cerr := s.rdb.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}

// Items implements Source.
func (s *RedisStore) Items(ctx context.Context) ([]Item, error) {
	var (
		order *redis.StringSliceCmd
		data  *redis.MapStringStringCmd
	)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		order = pipe.LRange(ctx, s.keys.order, 0, -1)
		data = pipe.HGetAll(ctx, s.keys.items)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scene: redis items: %w", err)
	}

	raw := data.Val()
	items := make([]Item, 0, len(raw))
	for _, id := range order.Val() {
		v, ok := raw[id]
		if !ok {
			continue
		}
		var it Item
		if err := json.Unmarshal([]byte(v), &it); err != nil {
			return nil, fmt.Errorf("scene: decode item %s: %w", id, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Subscribe implements Source.
func (s *RedisStore) Subscribe(fn func([]Item)) func() {
	return s.changes.add(fn)
}

// Ready implements Source.
func (s *RedisStore) Ready(ctx context.Context) (bool, error) {
	v, err := s.rdb.Get(ctx, s.keys.ready).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("scene: redis ready: %w", err)
	}
	return v == "1", nil
}

// OnReadyChange implements Source.
func (s *RedisStore) OnReadyChange(fn func(bool)) func() {
	return s.readiness.add(fn)
}

// SetReady implements Store.
func (s *RedisStore) SetReady(ctx context.Context, ready bool) error {
	want := "0"
	if ready {
		want = "1"
	}
	return s.watch(ctx, "set ready", func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, s.keys.ready).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur == want || (cur == "" && !ready) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.keys.ready, want, 0)
			pipe.Publish(ctx, s.keys.events, eventReady)
			return nil
		})
		return err
	}, s.keys.ready)
}

// CreateItems implements Writer.
func (s *RedisStore) CreateItems(ctx context.Context, items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	values, ids, err := encodeItems(items)
	if err != nil {
		return err
	}
	return s.watch(ctx, "create", func(tx *redis.Tx) error {
		found, err := tx.HMGet(ctx, s.keys.items, ids...).Result()
		if err != nil {
			return err
		}
		for i, v := range found {
			if v != nil {
				return fmt.Errorf("%w: %s", ErrExists, ids[i])
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.keys.items, values...)
			pipe.RPush(ctx, s.keys.order, toAny(ids)...)
			pipe.Publish(ctx, s.keys.events, eventItems)
			return nil
		})
		return err
	}, s.keys.items)
}

// UpdateItems implements Writer.
func (s *RedisStore) UpdateItems(ctx context.Context, updates ...Update) error {
	if len(updates) == 0 {
		return nil
	}
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	return s.watch(ctx, "update", func(tx *redis.Tx) error {
		found, err := tx.HMGet(ctx, s.keys.items, ids...).Result()
		if err != nil {
			return err
		}
		current := make(map[string]Item, len(found))
		stored := make(map[string]string, len(found))
		for i, v := range found {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var it Item
			if err := json.Unmarshal([]byte(str), &it); err != nil {
				return fmt.Errorf("decode item %s: %w", ids[i], err)
			}
			current[ids[i]] = it
			stored[ids[i]] = str
		}

		var changed []Item
		seen := make(map[string]int)
		for _, u := range updates {
			it, ok := current[u.ID]
			if !ok || u.Apply == nil {
				continue
			}
			u.Apply(&it)
			it.ID = u.ID
			current[u.ID] = it
			if i, dup := seen[u.ID]; dup {
				changed[i] = it
				continue
			}
			seen[u.ID] = len(changed)
			changed = append(changed, it)
		}
		values, _, err := encodeItems(changed)
		if err != nil {
			return err
		}
		var dirty []any
		for i := 0; i < len(values); i += 2 {
			if values[i+1] != stored[values[i].(string)] {
				dirty = append(dirty, values[i], values[i+1])
			}
		}
		if len(dirty) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.keys.items, dirty...)
			pipe.Publish(ctx, s.keys.events, eventItems)
			return nil
		})
		return err
	}, s.keys.items)
}

// DeleteItems implements Writer.
func (s *RedisStore) DeleteItems(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.watch(ctx, "delete", func(tx *redis.Tx) error {
		found, err := tx.HMGet(ctx, s.keys.items, ids...).Result()
		if err != nil {
			return err
		}
		var present []string
		for i, v := range found {
			if v != nil {
				present = append(present, ids[i])
			}
		}
		if len(present) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, s.keys.items, present...)
			for _, id := range present {
				pipe.LRem(ctx, s.keys.order, 0, id)
			}
			pipe.Publish(ctx, s.keys.events, eventItems)
			return nil
		})
		return err
	}, s.keys.items)
}

// ReplaceItems implements Store.
func (s *RedisStore) ReplaceItems(ctx context.Context, items ...Item) error {
	if err := validate(items); err != nil {
		return err
	}
	values, ids, err := encodeItems(items)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.keys.items, s.keys.order)
		if len(items) > 0 {
			pipe.HSet(ctx, s.keys.items, values...)
			pipe.RPush(ctx, s.keys.order, toAny(ids)...)
		}
		pipe.Publish(ctx, s.keys.events, eventItems)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scene: redis replace: %w", err)
	}
	return nil
}

// watch runs fn in an optimistic transaction on keys, retrying when another
// client changed them first.
func (s *RedisStore) watch(ctx context.Context, op string, fn func(*redis.Tx) error, keys ...string) error {
	for range maxTxRetries {
		err := s.rdb.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrExists) {
				return err
			}
			return fmt.Errorf("scene: redis %s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("scene: redis %s: %w", op, redis.TxFailedErr)
}

// encodeItems returns HSET field/value pairs and the item ids.
func encodeItems(items []Item) ([]any, []string, error) {
	values := make([]any, 0, 2*len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return nil, nil, fmt.Errorf("scene: encode item %s: %w", it.ID, err)
		}
		values = append(values, it.ID, string(data))
		ids = append(ids, it.ID)
	}
	return values, ids, nil
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
