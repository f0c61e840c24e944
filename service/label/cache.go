package label

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of parsed expressions kept by NewCache when size is not positive
const DefaultCacheSize = 512

// Cache keeps recently parsed expressions keyed by their source text
type Cache struct {
	*lru.Cache
}

// Parse returns a cached expression or parses and caches it
func (c *Cache) Parse(expr string) (Expr, error) {
	if c == nil || c.Cache == nil {
		return Parse(expr)
	}
	if cached, ok := c.Cache.Get(expr); ok {
		return cached.(Expr), nil
	}
	ret, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	c.Cache.Add(expr, ret)
	return ret, nil
}

// NewCache creates an expression cache
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: cache}, nil
}
