package classify

import (
	"context"
	"strings"
	"sync"

	"logihub/internal/domain"
)

// Cached memoizes successful classifications per normalized description and
// category. Errors are never cached. Eviction is whole-map reset when the
// entry cap is reached; the working set is small and the upstream call is
// the expensive part.
type Cached struct {
	next    Classifier
	maxSize int

	mu      sync.RWMutex
	entries map[string]domain.Classification
}

// NewCached wraps next with a bounded memoization layer.
func NewCached(next Classifier, maxSize int) *Cached {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &Cached{
		next:    next,
		maxSize: maxSize,
		entries: make(map[string]domain.Classification),
	}
}

// Classify implements Classifier.
func (c *Cached) Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error) {
	key := cacheKey(description, category)

	c.mu.RLock()
	cl, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cl, nil
	}

	cl, err := c.next.Classify(ctx, description, category)
	if err != nil {
		return domain.Classification{}, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]domain.Classification)
	}
	c.entries[key] = cl
	c.mu.Unlock()

	return cl, nil
}

// Candidates implements Classifier. Candidate lists are not cached.
func (c *Cached) Candidates(ctx context.Context, description string) ([]domain.Candidate, error) {
	return c.next.Candidates(ctx, description)
}

// Clear drops all cached classifications.
func (c *Cached) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]domain.Classification)
	c.mu.Unlock()
}

// Len reports the number of cached entries.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(description string, category domain.Category) string {
	return strings.ToLower(strings.TrimSpace(description)) + "|" + string(category)
}

// CachedDirectory memoizes code lookups keyed by tariff code, so classifiers
// that resolve candidates through a directory do not re-fetch known codes.
// Same eviction policy as Cached.
type CachedDirectory struct {
	next    CodeDirectory
	maxSize int

	mu      sync.RWMutex
	entries map[string]domain.Classification
}

// NewCachedDirectory wraps next with a bounded per-code cache.
func NewCachedDirectory(next CodeDirectory, maxSize int) *CachedDirectory {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &CachedDirectory{
		next:    next,
		maxSize: maxSize,
		entries: make(map[string]domain.Classification),
	}
}

// Lookup implements CodeDirectory.
func (c *CachedDirectory) Lookup(ctx context.Context, code string) (domain.Classification, error) {
	key := strings.TrimSpace(code)

	c.mu.RLock()
	cl, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cl, nil
	}

	cl, err := c.next.Lookup(ctx, code)
	if err != nil {
		return domain.Classification{}, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]domain.Classification)
	}
	c.entries[key] = cl
	c.mu.Unlock()

	return cl, nil
}

// Clear drops all cached codes.
func (c *CachedDirectory) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]domain.Classification)
	c.mu.Unlock()
}

// Len reports the number of cached codes.
func (c *CachedDirectory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
