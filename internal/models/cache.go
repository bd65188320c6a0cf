package models

import (
	"slices"
	"sync"

	"github.com/lk16/flippy-engine/internal/othello"
)

// Cache keeps search results in memory. It is used when Redis is not configured.
type Cache struct {
	// best stores the deepest search per board
	best map[othello.Board]SearchRecord

	// byID stores every search by its id
	byID map[string]SearchRecord

	// depthCounts counts searches per completed depth
	depthCounts map[int]int

	// dataMutex protects all maps
	dataMutex sync.Mutex
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		best:        make(map[othello.Board]SearchRecord),
		byID:        make(map[string]SearchRecord),
		depthCounts: make(map[int]int),
	}
}

// Add stores a search. It replaces the best result for its board only if it searched deeper.
func (c *Cache) Add(board othello.Board, record SearchRecord) {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	c.byID[record.ID] = record
	c.depthCounts[record.Depth]++

	found, ok := c.best[board]

	if !ok || record.Depth > found.Depth {
		c.best[board] = record
	}
}

// Lookup returns the deepest search for a board.
func (c *Cache) Lookup(board othello.Board) (SearchRecord, bool) {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	record, ok := c.best[board]
	return record, ok
}

// Get returns a search by id.
func (c *Cache) Get(id string) (SearchRecord, bool) {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	record, ok := c.byID[id]
	return record, ok
}

// Stats returns the depth histogram and the most recent searches.
func (c *Cache) Stats(recent int) SearchStats {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	stats := SearchStats{
		Total:  len(c.byID),
		Depths: make([]DepthStats, 0, len(c.depthCounts)),
		Recent: make([]SearchRecord, 0, len(c.byID)),
	}

	for depth, count := range c.depthCounts {
		stats.Depths = append(stats.Depths, DepthStats{Depth: depth, Count: count})
	}

	slices.SortFunc(stats.Depths, func(a, b DepthStats) int {
		return a.Depth - b.Depth
	})

	for _, record := range c.byID {
		stats.Recent = append(stats.Recent, record)
	}

	slices.SortFunc(stats.Recent, func(a, b SearchRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if len(stats.Recent) > recent {
		stats.Recent = stats.Recent[:recent]
	}

	return stats
}

// Len returns the number of boards in the cache.
func (c *Cache) Len() int {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	return len(c.best)
}
