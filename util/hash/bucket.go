package hash

// Duplicate-free, unordered collection of elements that share the same slot in a table.
//
// The map is allocated on first insert, most buckets of a freshly grown table stay empty for a while.
type bucket[T comparable] struct {
	keys map[T]struct{}
}

// Test whether the key is in the bucket
func (b *bucket[T]) has(key T) bool {
	_, ok := b.keys[key]
	return ok
}

// Add key to bucket, return true if the key wasn't present previously
func (b *bucket[T]) add(key T) bool {
	if b.has(key) {
		return false
	}
	if b.keys == nil {
		b.keys = make(map[T]struct{}, 2)
	}
	b.keys[key] = struct{}{}
	return true
}

// Delete key, return true if the key was present previously
func (b *bucket[T]) del(key T) bool {
	if !b.has(key) {
		return false
	}
	delete(b.keys, key)
	return true
}

func (b *bucket[T]) size() int {
	return len(b.keys)
}

// Fixed-length sequence of buckets.
//
// A table is never resized in place, grow() builds a new one and the caller installs it.
type table[T comparable] struct {
	buckets []bucket[T]
	hasher  Hasher[T]
}

func newTable[T comparable](capacity int, hasher Hasher[T]) *table[T] {
	return &table[T]{
		buckets: make([]bucket[T], capacity),
		hasher:  hasher,
	}
}

func (t *table[T]) capacity() int {
	return len(t.buckets)
}

// Bucket for the given hash code under the current table length.
func (t *table[T]) bucketAt(h uint64) *bucket[T] {
	return &t.buckets[h%uint64(len(t.buckets))]
}

func (t *table[T]) bucketOf(key T) *bucket[T] {
	return t.bucketAt(t.hasher(key))
}

// Build a table twice as long, every element is reinserted using the new modulus.
func (t *table[T]) grow() *table[T] {
	nt := newTable(2*len(t.buckets), t.hasher)
	for i := range t.buckets {
		for k := range t.buckets[i].keys {
			nt.bucketOf(k).add(k)
		}
	}
	return nt
}

// Sum of bucket sizes, only meaningful at a quiescent point.
func (t *table[T]) count() int {
	n := 0
	for i := range t.buckets {
		n += t.buckets[i].size()
	}
	return n
}
