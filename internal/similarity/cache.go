package similarity

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 10000

type pairKey struct {
	a, b string
}

func newPairKey(s1, s2 string) pairKey {
	a, b := strings.ToLower(s1), strings.ToLower(s2)
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Cache stores similarity values keyed by the unordered, case-insensitive
// pair of strings. It is bounded and safe for concurrent use.
type Cache struct {
	entries *lru.Cache[pairKey, float64]
}

// NewCache returns a cache holding at most size pairs. A non-positive size
// uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, _ := lru.New[pairKey, float64](size)
	return &Cache{entries: entries}
}

func (c *Cache) Get(s1, s2 string) (float64, bool) {
	return c.entries.Get(newPairKey(s1, s2))
}

func (c *Cache) Put(s1, s2 string, value float64) {
	c.entries.Add(newPairKey(s1, s2), value)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) Purge() {
	c.entries.Purge()
}
