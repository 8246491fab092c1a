// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item[V any] struct {
	value     V
	timestamp time.Time
}

// TTLCache memoizes fetched values per key with a TTL, deduplicating
// concurrent fetches for the same key through single-flight.
type TTLCache[K comparable, V any] struct {
	data    map[K]item[V]
	ttl     time.Duration
	lock    sync.RWMutex
	sfGroup singleflight.Group
}

func NewTTLCache[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]item[V]),
		ttl:  ttl,
	}
}

// Get returns the cached value for key if it is still fresh, otherwise
// fetches it. If invalidate is true the stale value is cleared before
// fetching so no other reader observes it; concurrent callers for the
// same key share the one in-flight fetch and its result.
func (c *TTLCache[K, V]) Get(ctx context.Context, key K, fetch func(context.Context, K) (V, error), invalidate bool) (V, error) {
	if invalidate {
		c.lock.Lock()
		delete(c.data, key)
		c.lock.Unlock()
	} else {
		c.lock.RLock()
		it, exists := c.data[key]
		c.lock.RUnlock()
		if exists && time.Since(it.timestamp) < c.ttl {
			return it.value, nil
		}
	}

	v, err, _ := c.sfGroup.Do(keyToString(key), func() (interface{}, error) {
		value, fetchErr := fetch(ctx, key)
		if fetchErr != nil {
			return *new(V), fetchErr
		}

		c.lock.Lock()
		c.data[key] = item[V]{
			value:     value,
			timestamp: time.Now(),
		}
		c.lock.Unlock()

		return value, nil
	})
	if err != nil {
		return *new(V), err
	}
	return v.(V), nil
}

// keyToString allows both fmt.Stringer keys and primitives.
func keyToString[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}
