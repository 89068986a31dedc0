package stache

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the parsed-template cache.
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables
	// caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// TemplateCache caches parsed templates keyed by template text plus the
// default delimiter pair, so the same text parsed under different
// delimiters never collides.
type TemplateCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key      string
	template *Template
	expiry   time.Time
	element  *list.Element
}

// NewTemplateCache creates a template cache using the global configuration.
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTemplateCacheWithConfig creates a template cache with the given
// configuration.
func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// cacheKey builds the lookup key for a template under a delimiter pair.
func cacheKey(text, ldel, rdel string) string {
	return ldel + "\x00" + rdel + "\x00" + text
}

// Get returns a cached template, or nil when the key is absent or expired.
func (tc *TemplateCache) Get(key string) *Template {
	if tc == nil || tc.config.MaxSize == 0 {
		return nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return nil
	}

	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		delete(tc.cache, key)
		tc.lru.Remove(entry.element)
		return nil
	}

	tc.lru.MoveToFront(entry.element)
	return entry.template
}

// Put stores a template, evicting the least recently used entry when full.
func (tc *TemplateCache) Put(key string, template *Template) {
	if tc == nil || tc.config.MaxSize == 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		entry.template = template
		if tc.config.TTL > 0 {
			entry.expiry = time.Now().Add(tc.config.TTL)
		}
		tc.lru.MoveToFront(entry.element)
		return
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		oldest := tc.lru.Back()
		if oldest != nil {
			oldEntry := oldest.Value.(*cacheEntry)
			delete(tc.cache, oldEntry.key)
			tc.lru.Remove(oldest)
		}
	}

	entry := &cacheEntry{
		key:      key,
		template: template,
	}
	if tc.config.TTL > 0 {
		entry.expiry = time.Now().Add(tc.config.TTL)
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Len returns the number of cached templates.
func (tc *TemplateCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.lru.Len()
}

// Clear removes all cached templates.
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cache = make(map[string]*cacheEntry)
	tc.lru.Init()
}
