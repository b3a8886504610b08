package suggest

import (
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

type op uint8

const (
	opComplete op = iota
	opCorrect
	opSuggest
)

type cacheKey struct {
	op    op
	input string
	limit int
}

// ResultCache keeps recent suggestion lists. The zero size cache stores
// nothing.
type ResultCache struct {
	lru    *lru.Cache[cacheKey, []Suggestion]
	size   int
	hits   atomic.Int64
	misses atomic.Int64
}

// NewResultCache returns a cache holding up to size results.
func NewResultCache(size int) *ResultCache {
	rc := &ResultCache{size: size}
	if size <= 0 {
		return rc
	}
	cache, err := lru.New[cacheKey, []Suggestion](size)
	if err != nil {
		log.Warnf("Result cache disabled: %v", err)
		return rc
	}
	rc.lru = cache
	return rc
}

func (rc *ResultCache) get(key cacheKey) ([]Suggestion, bool) {
	if rc.lru == nil {
		return nil, false
	}
	s, ok := rc.lru.Get(key)
	if !ok {
		rc.misses.Add(1)
		return nil, false
	}
	rc.hits.Add(1)
	return slices.Clone(s), true
}

func (rc *ResultCache) add(key cacheKey, s []Suggestion) {
	if rc.lru == nil {
		return
	}
	rc.lru.Add(key, slices.Clone(s))
}

// Purge drops every cached result.
func (rc *ResultCache) Purge() {
	if rc.lru != nil {
		rc.lru.Purge()
		log.Debugf("Result cache purged")
	}
}

// Stats returns the cache counters.
func (rc *ResultCache) Stats() map[string]int {
	n := 0
	if rc.lru != nil {
		n = rc.lru.Len()
	}
	return map[string]int{
		"cacheEntries": n,
		"cacheSize":    rc.size,
		"cacheHits":    int(rc.hits.Load()),
		"cacheMisses":  int(rc.misses.Load()),
	}
}
