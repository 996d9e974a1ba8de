package hash

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/curtisnewbie/lockset/util/utillog"
)

// Hash set with stripes that grow together with the table.
//
// Add, Remove and Contains hold the gate in shared mode only while they pick and lock their stripe, then release the
// gate before touching the bucket. Resize holds the gate exclusively, which stops new operations from picking a stripe,
// and then locks every stripe of the current lock array, which waits for the operations that already passed the gate.
//
// The early gate release is only valid because resize always locks every stripe before it swaps the table or the lock
// array. A goroutine holding a stripe can therefore read the table without holding the gate.
//
// To create a new RefinableSet, use [NewRefinableSet].
type RefinableSet[T comparable] struct {
	gate sync.RWMutex

	// replaced only while the gate is held exclusively
	locks []sync.Mutex

	// replaced only while the gate is held exclusively and every stripe is held
	table *table[T]

	capacity atomic.Int64 // mirrors len(table.buckets) for lock-free policy checks
	size     atomic.Int64
	resizes  atomic.Int64
	opts     options[T]
}

var _ HashSet[int] = (*RefinableSet[int])(nil)

// Create RefinableSet with table pre-sized to capacity buckets.
//
// The initial number of stripes is capacity unless [WithStripes] is provided, it doubles on every resize.
//
// Panics if capacity is less than 1, or if the stripes don't divide capacity.
func NewRefinableSet[T comparable](capacity int, opts ...Option[T]) *RefinableSet[T] {
	mustCapacity(capacity)
	o := buildOptions(capacity, opts)
	mustStripes(capacity, o.stripes)
	s := &RefinableSet[T]{
		locks: make([]sync.Mutex, o.stripes),
		table: newTable(capacity, o.hasher),
		opts:  o,
	}
	s.capacity.Store(int64(capacity))
	return s
}

// Lock the stripe for h in the current lock array.
func (s *RefinableSet[T]) acquire(h uint64) *sync.Mutex {
	s.gate.RLock()
	l := &s.locks[h%uint64(len(s.locks))]
	l.Lock()
	s.gate.RUnlock()
	return l
}

// Add element, return true if the element wasn't present previously.
func (s *RefinableSet[T]) Add(e T) bool {
	added := s.add(s.opts.hasher(e), e)
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

func (s *RefinableSet[T]) add(h uint64, e T) bool {
	l := s.acquire(h)
	defer l.Unlock()
	if !s.table.bucketAt(h).add(e) {
		return false
	}
	s.size.Add(1)
	return true
}

// Remove element, return true if the element was present previously.
func (s *RefinableSet[T]) Remove(e T) bool {
	h := s.opts.hasher(e)
	l := s.acquire(h)
	defer l.Unlock()
	if !s.table.bucketAt(h).del(e) {
		return false
	}
	s.size.Add(-1)
	return true
}

func (s *RefinableSet[T]) Contains(e T) bool {
	h := s.opts.hasher(e)
	l := s.acquire(h)
	defer l.Unlock()
	return s.table.bucketAt(h).has(e)
}

// Size is read without locking.
func (s *RefinableSet[T]) Size() int {
	return int(s.size.Load())
}

// Double both the table length and the number of stripes, and rehash every element.
func (s *RefinableSet[T]) Resize() {
	s.resize(int(s.capacity.Load()))
}

// Grow the table if it's still observed capacity long, returns false if another goroutine got there first.
func (s *RefinableSet[T]) resize(observed int) bool {
	ev, ok := s.refine(observed)
	if ok {
		s.opts.emit(ev)
	}
	return ok
}

func (s *RefinableSet[T]) refine(observed int) (ResizeEvent, bool) {
	// exclusive gate first, stripes second; no operation ever waits for the gate while holding a stripe
	s.gate.Lock()
	defer s.gate.Unlock()

	// capacity only changes under the exclusive gate, no need to check it again after the stripes are locked
	if cur := int(s.capacity.Load()); cur != observed {
		utillog.DebugLog("Refinable set already resized by another goroutine, observed: %d, current: %d", observed, cur)
		return ResizeEvent{}, false
	}

	// operations that released the gate may still hold their stripe
	locks := s.locks
	for i := range locks {
		locks[i].Lock()
	}
	defer func() {
		for i := range locks {
			locks[i].Unlock()
		}
	}()

	start := time.Now()
	s.table = s.table.grow()
	s.locks = make([]sync.Mutex, 2*len(locks))
	s.capacity.Store(int64(s.table.capacity()))
	s.resizes.Add(1)
	return ResizeEvent{
		Variant:     VariantRefinable,
		OldCapacity: observed,
		NewCapacity: s.table.capacity(),
		OldStripes:  len(locks),
		NewStripes:  len(s.locks),
		Size:        s.Size(),
		Took:        time.Since(start),
	}, true
}

func (s *RefinableSet[T]) Stats() Stats {
	s.gate.RLock()
	stripes := len(s.locks)
	s.gate.RUnlock()
	return Stats{
		Variant:  VariantRefinable,
		Size:     s.Size(),
		Capacity: int(s.capacity.Load()),
		Stripes:  stripes,
		Resizes:  s.resizes.Load(),
	}
}
