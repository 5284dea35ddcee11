package cache

import (
	"strings"
	"time"
)

// Cache is the request-caching layer in front of upstream lookups.
// Keys are namespaced ("bet:polystrat:<id>") so metrics can be split per namespace.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns (value, true) if found, (nil, false) if not found.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with a TTL.
	// Returns false if the value was dropped by admission.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Close closes the cache and releases resources.
	Close()
}

// Key joins a namespace and its parts with ':'.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

// namespaceOf returns the key prefix up to the first ':'.
func namespaceOf(key string) string {
	ns, _, found := strings.Cut(key, ":")
	if !found {
		return "default"
	}
	return ns
}
