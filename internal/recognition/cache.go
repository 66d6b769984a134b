package recognition

import (
	"sync"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

type cacheKey struct {
	character string
	size      int
}

// ReferenceCache stores preprocessed reference glyphs keyed by character and
// size.
//
// Rendering a glyph is the expensive step of recognition, and the same few
// hundred characters are practiced over and over, so each reference is
// rendered and preprocessed once and reused.
//
// ReferenceCache is safe for concurrent use by multiple goroutines. Lookup
// and store are separate critical sections: two goroutines that miss on the
// same key may both render it, and the last store wins. Rendering is
// deterministic, so both results are identical.
//
// # Memory Management
//
// Entries remain in memory until explicitly removed via Evict() or Clear().
// A 64×64 reference costs 32 KiB.
//
// # Example Usage
//
//	cache := recognition.NewReferenceCache()
//	r := recognition.New(renderer, recognition.WithCache(cache))
//	// ...
//	cache.Clear() // after switching fonts
type ReferenceCache struct {
	mu         sync.RWMutex
	references map[cacheKey]*imaging.InkImage
}

// NewReferenceCache creates an empty cache.
func NewReferenceCache() *ReferenceCache {
	return &ReferenceCache{
		references: make(map[cacheKey]*imaging.InkImage),
	}
}

// Get returns the cached reference for character at size, if any.
//
// The returned image is shared; callers must not modify it.
func (c *ReferenceCache) Get(character string, size int) (*imaging.InkImage, bool) {
	c.mu.RLock()
	img, ok := c.references[cacheKey{character, size}]
	c.mu.RUnlock()
	return img, ok
}

// Put stores a reference, replacing any previous entry for the same key.
func (c *ReferenceCache) Put(character string, size int, img *imaging.InkImage) {
	c.mu.Lock()
	c.references[cacheKey{character, size}] = img
	c.mu.Unlock()
}

// GetOrCreate returns the cached reference or calls create and caches its
// result.
//
// create runs without the lock held, so a slow renderer never blocks readers
// of other keys. Errors from create are returned and nothing is cached.
func (c *ReferenceCache) GetOrCreate(character string, size int, create func() (*imaging.InkImage, error)) (*imaging.InkImage, error) {
	if img, ok := c.Get(character, size); ok {
		return img, nil
	}

	img, err := create()
	if err != nil {
		return nil, err
	}

	c.Put(character, size, img)
	return img, nil
}

// Len returns the number of cached references.
func (c *ReferenceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.references)
}

// Evict removes the reference for character at size.
//
// If the entry is not in the cache, this method does nothing.
func (c *ReferenceCache) Evict(character string, size int) {
	c.mu.Lock()
	delete(c.references, cacheKey{character, size})
	c.mu.Unlock()
}

// Clear removes every reference from the cache.
func (c *ReferenceCache) Clear() {
	c.mu.Lock()
	c.references = make(map[cacheKey]*imaging.InkImage)
	c.mu.Unlock()
}
