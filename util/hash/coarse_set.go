package hash

import (
	"sync"
	"time"
)

// Hash set guarded by a single mutex.
//
// Every operation, including Size, holds the mutex for its whole duration, so only one operation
// makes progress at any time. To create a new CoarseSet, use [NewCoarseSet].
type CoarseSet[T comparable] struct {
	mu      sync.Mutex
	table   *table[T]
	size    int
	resizes int64
	opts    options[T]
}

var _ HashSet[int] = (*CoarseSet[int])(nil)

// Create CoarseSet with table pre-sized to capacity buckets.
//
// Panics if capacity is less than 1.
func NewCoarseSet[T comparable](capacity int, opts ...Option[T]) *CoarseSet[T] {
	mustCapacity(capacity)
	o := buildOptions(capacity, opts)
	return &CoarseSet[T]{
		table: newTable(capacity, o.hasher),
		opts:  o,
	}
}

// Add element, return true if the element wasn't present previously.
//
// The policy triggered resize is a separate acquisition of the mutex, the policy is checked again after each
// resize since concurrent inserts may have pushed the size past the threshold of the grown table as well.
func (s *CoarseSet[T]) Add(e T) bool {
	added, exceeded, capacity := s.add(e)
	for exceeded {
		s.resize(capacity)
		exceeded, capacity = s.policy()
	}
	return added
}

func (s *CoarseSet[T]) policy() (exceeded bool, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	capacity = s.table.capacity()
	return s.opts.exceeded(s.size, capacity), capacity
}

func (s *CoarseSet[T]) add(e T) (added bool, exceeded bool, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	capacity = s.table.capacity()
	if !s.table.bucketOf(e).add(e) {
		return false, false, capacity
	}
	s.size++
	return true, s.opts.exceeded(s.size, capacity), capacity
}

// Remove element, return true if the element was present previously.
func (s *CoarseSet[T]) Remove(e T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.table.bucketOf(e).del(e) {
		return false
	}
	s.size--
	return true
}

func (s *CoarseSet[T]) Contains(e T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.bucketOf(e).has(e)
}

func (s *CoarseSet[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Double the table length and rehash every element.
func (s *CoarseSet[T]) Resize() {
	s.mu.Lock()
	capacity := s.table.capacity()
	s.mu.Unlock()
	s.resize(capacity)
}

// Grow the table if it's still observed capacity long, returns false if another goroutine got there first.
func (s *CoarseSet[T]) resize(observed int) bool {
	ev, ok := s.grow(observed)
	if ok {
		s.opts.emit(ev)
	}
	return ok
}

func (s *CoarseSet[T]) grow(observed int) (ResizeEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table.capacity() != observed {
		return ResizeEvent{}, false
	}

	start := time.Now()
	s.table = s.table.grow()
	s.resizes++
	return ResizeEvent{
		Variant:     VariantCoarse,
		OldCapacity: observed,
		NewCapacity: s.table.capacity(),
		OldStripes:  1,
		NewStripes:  1,
		Size:        s.size,
		Took:        time.Since(start),
	}, true
}

func (s *CoarseSet[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Variant:  VariantCoarse,
		Size:     s.size,
		Capacity: s.table.capacity(),
		Stripes:  1,
		Resizes:  s.resizes,
	}
}
