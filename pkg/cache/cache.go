// pkg/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
)

type Item struct {
	Value      interface{}
	Expiration int64
}

// Cache is an in-process TTL map. It backs token revocation when Redis is disabled.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

func NewCache() *Cache {
	return newCache(time.Minute)
}

func newCache(gcInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		stop:  make(chan struct{}),
	}
	go cache.startGC(gcInterval)
	return cache
}

func (c *Cache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(duration).UnixNano()
	c.items[key] = Item{
		Value:      value,
		Expiration: expiration,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	if time.Now().UnixNano() > item.Expiration {
		return nil, false
	}

	return item.Value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the expiry goroutine.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Revoke and IsRevoked make Cache usable as a token denylist.
func (c *Cache) Revoke(_ context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	c.Set(constants.CacheKeyRevokedToken+jti, true, ttl)
	return nil
}

func (c *Cache) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := c.Get(constants.CacheKeyRevokedToken + jti)
	return found, nil
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.deleteExpired()
		}
	}
}

func (c *Cache) deleteExpired() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
