package discovery

import (
	"container/list"
	"context"
	"sync"
	"time"

	types "github.com/dowhat/dowhat-backend/internal/domain/discovery"
)

// MemoryResultCache is an in-process LRU ResultCache used when no Redis
// address is configured, and in tests. Eviction enforces both the entry
// bound and the total cached-item bound.
type MemoryResultCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	itemTotal  int
	maxEntries int
	maxItems   int
	ttl        time.Duration
	now        func() time.Time
}

type memCacheEntry struct {
	key      string
	result   *types.Result
	items    int
	storedAt time.Time
}

func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: MaxCacheEntries,
		maxItems:   MaxCacheItems,
		ttl:        CacheTTL,
		now:        time.Now,
	}
}

func (c *MemoryResultCache) Get(_ context.Context, key string) (*types.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*memCacheEntry)
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.removeLocked(el)
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	return entry.result, true, nil
}

func (c *MemoryResultCache) Set(_ context.Context, key string, result *types.Result) error {
	if result == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}

	entry := &memCacheEntry{
		key:      key,
		result:   result,
		items:    len(result.Items),
		storedAt: c.now(),
	}
	c.entries[key] = c.order.PushFront(entry)
	c.itemTotal += entry.items

	for (c.order.Len() > c.maxEntries || c.itemTotal > c.maxItems) && c.order.Len() > 1 {
		c.removeLocked(c.order.Back())
	}
	return nil
}

func (c *MemoryResultCache) removeLocked(el *list.Element) {
	entry := el.Value.(*memCacheEntry)
	c.order.Remove(el)
	delete(c.entries, entry.key)
	c.itemTotal -= entry.items
}
