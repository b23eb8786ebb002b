package scraper

import (
	"strings"
	"sync"

	"github.com/octobees/job-leads/api/internal/urlfilter"
)

// VisitedSet tracks pages already fetched while processing one feed item.
// It is safe for concurrent use by the crawls of a batch.
type VisitedSet struct {
	mu    sync.Mutex
	pages map[string]struct{}
}

// NewVisitedSet returns an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{pages: make(map[string]struct{})}
}

// Add marks url as visited and reports whether it was new.
func (v *VisitedSet) Add(url string) bool {
	key := visitKey(url)
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, seen := v.pages[key]; seen {
		return false
	}
	v.pages[key] = struct{}{}
	return true
}

// Has reports whether url was visited.
func (v *VisitedSet) Has(url string) bool {
	key := visitKey(url)
	v.mu.Lock()
	defer v.mu.Unlock()
	_, seen := v.pages[key]
	return seen
}

// Len returns the number of visited pages.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pages)
}

// visitKey folds the scheme, host case and a www. prefix. The path keeps its case.
func visitKey(url string) string {
	rest := strings.TrimSpace(url)
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+len("://"):]
	}
	host, tail := rest, ""
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		host, tail = rest[:idx], rest[idx:]
	}
	return strings.TrimSuffix(urlfilter.Normalize(host)+tail, "/")
}
