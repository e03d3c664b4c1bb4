// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, []uint32](32)
//	words, err := c.GetOrCreate(src, compile)
//
// Cache is safe for concurrent use and must not be copied.
package cache
