// Package catalog serves read-only catalog queries with per-argument memoisation.
//
// Results are cached for the lifetime of the Reader: once a category list or
// item has been read it is never re-queried, even if the tables change. The
// catalog is append-only after seeding, and the seeder calls Invalidate.
package catalog

import (
	"context"
	"sync"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// FeaturedLimit is the number of items Featured returns.
const FeaturedLimit = 10

// Reader is a cached view of items and categories.
//
// Thread-safety: Reader is safe for concurrent use.
type Reader struct {
	q store.Querier

	mu         sync.Mutex
	categories []string
	featured   []retail.Item
	byCategory map[string][]retail.Item
	byID       map[int64]retail.Item
}

// New creates a reader over q (usually the store's *sql.DB).
func New(q store.Querier) *Reader {
	return &Reader{
		q:          q,
		byCategory: make(map[string][]retail.Item),
		byID:       make(map[int64]retail.Item),
	}
}

// Categories returns the distinct categories of the items present, sorted.
func (r *Reader) Categories(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.categories != nil {
		return r.categories, nil
	}
	cats, err := store.ListCategories(ctx, r.q)
	if err != nil {
		return nil, err
	}
	r.categories = cats
	return cats, nil
}

// ItemsByCategory returns every item in category ordered by id.
func (r *Reader) ItemsByCategory(ctx context.Context, category string) ([]retail.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if items, ok := r.byCategory[category]; ok {
		return items, nil
	}
	items, err := store.ListItemsByCategory(ctx, r.q, category)
	if err != nil {
		return nil, err
	}
	r.byCategory[category] = items
	return items, nil
}

// Item returns the item with id. Absence is a NOT_FOUND error and is not cached.
func (r *Reader) Item(ctx context.Context, id int64) (retail.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if it, ok := r.byID[id]; ok {
		return it, nil
	}
	it, err := store.GetItem(ctx, r.q, id)
	if err != nil {
		return retail.Item{}, err
	}
	r.byID[id] = it
	return it, nil
}

// Featured returns the first FeaturedLimit items by id.
func (r *Reader) Featured(ctx context.Context) ([]retail.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.featured != nil {
		return r.featured, nil
	}
	items, err := store.ListItems(ctx, r.q, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	r.featured = items
	return items, nil
}

// Invalidate drops every cached result.
func (r *Reader) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = nil
	r.featured = nil
	r.byCategory = make(map[string][]retail.Item)
	r.byID = make(map[int64]retail.Item)
}
