// Package resolve maps type names mentioned in documents to the document
// that defines them.
package resolve

import (
	"context"

	"github.com/hyphen-docs/hyphen/internal/docset"
)

// Lookup finds the index path for a name. index.Store implements it.
type Lookup interface {
	FindBestByName(ctx context.Context, name string) (string, bool, error)
}

type cacheEntry struct {
	file  string
	found bool
}

// Stats counts resolver activity over one run.
type Stats struct {
	Hits    int
	Misses  int // cached "not found" answers, including the first one
	Lookups int
}

// Resolver memoizes name lookups for one run. Both hits and misses are
// cached, so each distinct name reaches the index at most once. It is not
// safe for concurrent use.
type Resolver struct {
	lookup Lookup
	cache  map[string]cacheEntry
	stats  Stats
}

func New(lookup Lookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  make(map[string]cacheEntry),
	}
}

// Resolve returns the document file defining name. Lookup failures are
// returned and not cached.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	if e, ok := r.cache[name]; ok {
		if e.found {
			r.stats.Hits++
		} else {
			r.stats.Misses++
		}
		return e.file, e.found, nil
	}

	r.stats.Lookups++
	path, found, err := r.lookup.FindBestByName(ctx, name)
	if err != nil {
		return "", false, err
	}

	// A path without a file component has nothing to link to.
	var e cacheEntry
	if found {
		e.file = docset.DocumentFile(path)
		e.found = e.file != ""
	}
	if !e.found {
		r.stats.Misses++
	}
	r.cache[name] = e
	return e.file, e.found, nil
}

// Stats returns counters accumulated so far.
func (r *Resolver) Stats() Stats {
	return r.stats
}
