// Package collection provides the keyed record container used by the
// per-provider resource inventories. Keys are provider-assigned resource
// identifiers (names on GCP, OCIDs on OCI) and are unique within a
// collection.
package collection

import "sort"

// Collection is a keyed set of resource records of one class.
// The zero value is not usable; construct with New.
type Collection[T any] struct {
	items map[string]T
}

// New creates an empty Collection.
func New[T any]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

// Set inserts or updates the record for the given resource identifier.
func (c *Collection[T]) Set(id string, record T) {
	c.items[id] = record
}

// Get retrieves a record by identifier. Returns the record and true if
// present, or the zero value and false if not.
func (c *Collection[T]) Get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// Delete removes an identifier. No-op if absent.
func (c *Collection[T]) Delete(id string) {
	delete(c.items, id)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// IDs returns all identifiers in sorted order. Consumers iterate for
// display and for deterministic quota arithmetic.
func (c *Collection[T]) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Values returns all records ordered by their identifiers.
func (c *Collection[T]) Values() []T {
	vals := make([]T, 0, len(c.items))
	for _, id := range c.IDs() {
		vals = append(vals, c.items[id])
	}
	return vals
}

// Snapshot returns a shallow copy of all records. Mutations to the
// returned map do not affect the collection.
func (c *Collection[T]) Snapshot() map[string]T {
	cp := make(map[string]T, len(c.items))
	for k, v := range c.items {
		cp[k] = v
	}
	return cp
}
