package repo

import (
	"BrainrotKeeper/internal/inventory"
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedProfileStore кэширует загруженные профили в LRU с TTL.
// Save и Delete сбрасывают запись; конфликт версии тоже сбрасывает её.
type CachedProfileStore struct {
	inner ProfileStore
	lru   *expirable.LRU[string, inventory.ProfileState]
}

// NewCachedProfileStore оборачивает inner. size <= 0 отключает кэш.
func NewCachedProfileStore(inner ProfileStore, size int, ttl time.Duration) ProfileStore {
	if size <= 0 {
		return inner
	}
	return &CachedProfileStore{
		inner: inner,
		lru:   expirable.NewLRU[string, inventory.ProfileState](size, nil, ttl),
	}
}

func cacheKey(identity, name string) string {
	return identity + "\x00" + name
}

func (c *CachedProfileStore) Load(ctx context.Context, identity, name string) (inventory.ProfileState, bool, error) {
	key := cacheKey(identity, name)
	if st, ok := c.lru.Get(key); ok {
		return st.Clone(), true, nil
	}
	st, found, err := c.inner.Load(ctx, identity, name)
	if err != nil || !found {
		return st, found, err
	}
	c.lru.Add(key, st.Clone())
	return st, true, nil
}

func (c *CachedProfileStore) Save(ctx context.Context, identity string, state inventory.ProfileState) (int64, error) {
	key := cacheKey(identity, state.Name)
	ver, err := c.inner.Save(ctx, identity, state)
	if err != nil {
		c.lru.Remove(key)
		return 0, err
	}
	saved := state.Clone()
	saved.Version = ver
	c.lru.Add(key, saved)
	return ver, nil
}

func (c *CachedProfileStore) List(ctx context.Context, identity string) ([]string, error) {
	return c.inner.List(ctx, identity)
}

func (c *CachedProfileStore) Delete(ctx context.Context, identity, name string) (bool, error) {
	c.lru.Remove(cacheKey(identity, name))
	return c.inner.Delete(ctx, identity, name)
}

// Len — число записей в кэше.
func (c *CachedProfileStore) Len() int {
	return c.lru.Len()
}
