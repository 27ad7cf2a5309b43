// Package cache provides a small thread-safe LRU cache.
//
//	c := cache.New[string, []wallgen.Contour](128)
//	c.Set(key, contours)
//	contours, ok := c.Get(key)
//
// A capacity of zero or less disables the cache: Set stores nothing and
// Get always misses.
package cache
