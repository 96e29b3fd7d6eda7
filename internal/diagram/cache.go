package diagram

import (
	"crypto/sha256"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds a Cache created with size <= 0.
const DefaultCacheSize = 256

// Cache memoizes successful compilations of one Compiler, keyed by the
// SHA-256 of the input text. Failures are not cached. Safe for concurrent use.
type Cache struct {
	compiler *Compiler
	entries  *lru.Cache[[sha256.Size]byte, *Result]
}

// NewCache wraps c with an LRU of the given size.
func NewCache(c *Compiler, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[[sha256.Size]byte, *Result](size)
	if err != nil {
		return nil, err
	}
	return &Cache{compiler: c, entries: entries}, nil
}

// Compile returns the cached result for text or compiles and stores it.
// Returned results are shared; callers must not mutate them.
func (c *Cache) Compile(text string) (*Result, error) {
	start := time.Now()
	key := sha256.Sum256([]byte(text))
	if res, ok := c.entries.Get(key); ok {
		if m := c.compiler.metrics; m != nil {
			m.ObserveCompile(string(res.Dialect), OutcomeCacheHit, time.Since(start), len(res.Model.Nodes))
		}
		return res, nil
	}
	res, err := c.compiler.Compile(text)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, res)
	return res, nil
}

// Len reports the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}
