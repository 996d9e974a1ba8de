package hash

import "time"

// Hash set without any synchronization.
//
// SeqSet is not safe for concurrent use. To create a new SeqSet, use [NewSeqSet].
type SeqSet[T comparable] struct {
	table   *table[T]
	size    int
	resizes int64
	opts    options[T]
}

var _ HashSet[int] = (*SeqSet[int])(nil)

// Create SeqSet with table pre-sized to capacity buckets.
//
// Panics if capacity is less than 1.
func NewSeqSet[T comparable](capacity int, opts ...Option[T]) *SeqSet[T] {
	mustCapacity(capacity)
	o := buildOptions(capacity, opts)
	return &SeqSet[T]{
		table: newTable(capacity, o.hasher),
		opts:  o,
	}
}

// Add element, return true if the element wasn't present previously.
func (s *SeqSet[T]) Add(e T) bool {
	if !s.table.bucketOf(e).add(e) {
		return false
	}
	s.size++
	if s.opts.exceeded(s.size, s.table.capacity()) {
		s.Resize()
	}
	return true
}

// Remove element, return true if the element was present previously.
func (s *SeqSet[T]) Remove(e T) bool {
	if !s.table.bucketOf(e).del(e) {
		return false
	}
	s.size--
	return true
}

func (s *SeqSet[T]) Contains(e T) bool {
	return s.table.bucketOf(e).has(e)
}

func (s *SeqSet[T]) Size() int {
	return s.size
}

// Double the table length and rehash every element.
func (s *SeqSet[T]) Resize() {
	start := time.Now()
	old := s.table
	s.table = old.grow()
	s.resizes++
	s.opts.emit(ResizeEvent{
		Variant:     VariantSequential,
		OldCapacity: old.capacity(),
		NewCapacity: s.table.capacity(),
		Size:        s.size,
		Took:        time.Since(start),
	})
}

func (s *SeqSet[T]) Stats() Stats {
	return Stats{
		Variant:  VariantSequential,
		Size:     s.size,
		Capacity: s.table.capacity(),
		Resizes:  s.resizes,
	}
}
