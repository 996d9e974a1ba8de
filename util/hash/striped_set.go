package hash

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/curtisnewbie/lockset/util/utillog"
)

// Hash set partitioned into a fixed number of stripes.
//
// Element e is guarded by stripe hash(e) % stripes, the number of stripes never changes, so the mapping from element
// to stripe is stable across resizes even though the bucket index is not. Resize acquires every stripe.
//
// To create a new StripedSet, use [NewStripedSet].
type StripedSet[T comparable] struct {
	locks []sync.Mutex

	// replaced only while every stripe is held
	table *table[T]

	capacity atomic.Int64 // mirrors len(table.buckets) for lock-free policy checks
	size     atomic.Int64
	resizes  atomic.Int64
	opts     options[T]
}

var _ HashSet[int] = (*StripedSet[int])(nil)

// Create StripedSet with table pre-sized to capacity buckets.
//
// The number of stripes is capacity unless [WithStripes] is provided.
//
// Panics if capacity is less than 1, or if the stripes don't divide capacity.
func NewStripedSet[T comparable](capacity int, opts ...Option[T]) *StripedSet[T] {
	mustCapacity(capacity)
	o := buildOptions(capacity, opts)
	mustStripes(capacity, o.stripes)
	s := &StripedSet[T]{
		locks: make([]sync.Mutex, o.stripes),
		table: newTable(capacity, o.hasher),
		opts:  o,
	}
	s.capacity.Store(int64(capacity))
	return s
}

func (s *StripedSet[T]) stripe(h uint64) *sync.Mutex {
	return &s.locks[h%uint64(len(s.locks))]
}

// Add element, return true if the element wasn't present previously.
func (s *StripedSet[T]) Add(e T) bool {
	added := s.add(s.opts.hasher(e), e)

	// the stripe is released at this point, resize needs all of them
	if added {
		for {
			capacity := int(s.capacity.Load())
			if !s.opts.exceeded(s.Size(), capacity) {
				break
			}
			s.resize(capacity)
		}
	}
	return added
}

func (s *StripedSet[T]) add(h uint64, e T) bool {
	l := s.stripe(h)
	l.Lock()
	defer l.Unlock()
	if !s.table.bucketAt(h).add(e) {
		return false
	}
	s.size.Add(1)
	return true
}

// Remove element, return true if the element was present previously.
func (s *StripedSet[T]) Remove(e T) bool {
	h := s.opts.hasher(e)
	l := s.stripe(h)
	l.Lock()
	defer l.Unlock()
	if !s.table.bucketAt(h).del(e) {
		return false
	}
	s.size.Add(-1)
	return true
}

func (s *StripedSet[T]) Contains(e T) bool {
	h := s.opts.hasher(e)
	l := s.stripe(h)
	l.Lock()
	defer l.Unlock()
	return s.table.bucketAt(h).has(e)
}

// Size is read without locking.
func (s *StripedSet[T]) Size() int {
	return int(s.size.Load())
}

// Double the table length and rehash every element. The number of stripes is unchanged.
func (s *StripedSet[T]) Resize() {
	s.resize(int(s.capacity.Load()))
}

// Grow the table if it's still observed capacity long, returns false if another goroutine got there first.
func (s *StripedSet[T]) resize(observed int) bool {
	ev, ok := s.grow(observed)
	if ok {
		s.opts.emit(ev)
	}
	return ok
}

func (s *StripedSet[T]) grow(observed int) (ResizeEvent, bool) {
	// always in ascending order, two goroutines resizing at the same time can't deadlock
	for i := range s.locks {
		s.locks[i].Lock()
	}
	defer func() {
		for i := range s.locks {
			s.locks[i].Unlock()
		}
	}()

	if s.table.capacity() != observed {
		utillog.DebugLog("Striped set already resized by another goroutine, observed: %d, current: %d", observed, s.table.capacity())
		return ResizeEvent{}, false
	}

	start := time.Now()
	s.table = s.table.grow()
	s.capacity.Store(int64(s.table.capacity()))
	s.resizes.Add(1)
	return ResizeEvent{
		Variant:     VariantStriped,
		OldCapacity: observed,
		NewCapacity: s.table.capacity(),
		OldStripes:  len(s.locks),
		NewStripes:  len(s.locks),
		Size:        s.Size(),
		Took:        time.Since(start),
	}, true
}

func (s *StripedSet[T]) Stats() Stats {
	return Stats{
		Variant:  VariantStriped,
		Size:     s.Size(),
		Capacity: int(s.capacity.Load()),
		Stripes:  len(s.locks),
		Resizes:  s.resizes.Load(),
	}
}
