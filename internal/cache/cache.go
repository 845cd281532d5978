package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/advdiary/advdiary/internal/records"
)

// Snapshots caches per-user collection reads so repeated dashboard loads do
// not hit the store. Every write for a user invalidates that user's entries.
type Snapshots interface {
	GetCases(userID string) ([]records.Case, bool)
	SetCases(userID string, cases []records.Case)
	GetClients(userID string) ([]records.Client, bool)
	SetClients(userID string, clients []records.Client)
	Invalidate(userID string)
	Clear()
	Stats() Stats
}

type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type snapshotCache struct {
	cache *cache.Cache
	mu    sync.RWMutex
	stats Stats
}

func New(ttl time.Duration) Snapshots {
	return &snapshotCache{
		cache: cache.New(ttl, ttl*2),
	}
}

func casesKey(userID string) string {
	return fmt.Sprintf("cases:%s", userID)
}

func clientsKey(userID string) string {
	return fmt.Sprintf("clients:%s", userID)
}

func (c *snapshotCache) GetCases(userID string) ([]records.Case, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(casesKey(userID)); found {
		if cases, ok := data.([]records.Case); ok {
			c.stats.Hits++
			return cases, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *snapshotCache) SetCases(userID string, cases []records.Case) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(casesKey(userID), cases, cache.DefaultExpiration)
}

func (c *snapshotCache) GetClients(userID string) ([]records.Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(clientsKey(userID)); found {
		if clients, ok := data.([]records.Client); ok {
			c.stats.Hits++
			return clients, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *snapshotCache) SetClients(userID string, clients []records.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(clientsKey(userID), clients, cache.DefaultExpiration)
}

// Invalidate drops both snapshots for a user after any write on its behalf.
func (c *snapshotCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(casesKey(userID))
	c.cache.Delete(clientsKey(userID))
}

func (c *snapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = Stats{}
}

func (c *snapshotCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}
