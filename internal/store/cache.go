package store

import (
	"sync"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
)

// SnapshotCache is the volatile, non-authoritative copy of the most recent
// generation, kept for O(1) single-address lookups without a Redis round
// trip. The refresh coordinator replaces it wholesale after each successful
// cycle; the read path may additionally backfill single entries on a Redis
// hit. Readers never observe a partially built generation.
type SnapshotCache struct {
	mu      sync.RWMutex
	records map[string]domain.TokenRecord
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		records: make(map[string]domain.TokenRecord),
	}
}

// Replace swaps in a full generation.
func (c *SnapshotCache) Replace(records map[string]domain.TokenRecord) {
	next := make(map[string]domain.TokenRecord, len(records))
	for address, record := range records {
		next[address] = record
	}

	c.mu.Lock()
	c.records = next
	c.mu.Unlock()
}

func (c *SnapshotCache) Get(address string) (domain.TokenRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[address]
	return record, ok
}

// Set backfills one record read through from the durable store.
func (c *SnapshotCache) Set(record domain.TokenRecord) {
	c.mu.Lock()
	c.records[record.Address] = record
	c.mu.Unlock()
}

// All returns the cached generation. Used for late-joiner catch-up on the
// push feed.
func (c *SnapshotCache) All() []domain.TokenRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]domain.TokenRecord, 0, len(c.records))
	for _, record := range c.records {
		records = append(records, record)
	}
	return records
}
