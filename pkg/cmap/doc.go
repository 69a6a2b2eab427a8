// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread over shards with murmur3; each shard has its own
// RWMutex. The HTTP layer keeps one rate limiter per caller in it.
//
//	m := cmap.New[*rate.Limiter]()
//	lim, _ := m.GetOrCreate(caller, newLimiter)
package cmap
