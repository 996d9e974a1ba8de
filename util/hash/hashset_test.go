package hash

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSet interface {
	HashSet[int]
	Inspector
	Resize()
}

type concurrentTestSet interface {
	testSet
	resize(observed int) bool
}

type variantCase struct {
	variant Variant
	new     func(capacity int, opts ...Option[int]) testSet
}

func allVariants() []variantCase {
	return []variantCase{
		{VariantSequential, func(c int, opts ...Option[int]) testSet { return NewSeqSet(c, opts...) }},
		{VariantCoarse, func(c int, opts ...Option[int]) testSet { return NewCoarseSet(c, opts...) }},
		{VariantStriped, func(c int, opts ...Option[int]) testSet { return NewStripedSet(c, opts...) }},
		{VariantRefinable, func(c int, opts ...Option[int]) testSet { return NewRefinableSet(c, opts...) }},
	}
}

func concurrentVariants() []variantCase {
	return allVariants()[1:]
}

// only safe at a quiescent point
func tableOf(s testSet) *table[int] {
	switch v := s.(type) {
	case *SeqSet[int]:
		return v.table
	case *CoarseSet[int]:
		return v.table
	case *StripedSet[int]:
		return v.table
	case *RefinableSet[int]:
		return v.table
	}
	panic(fmt.Sprintf("unknown set type %T", s))
}

// every element sits in bucket hash % len exactly once, and the counter matches the buckets
func assertQuiescent(t *testing.T, s testSet) {
	t.Helper()
	tb := tableOf(s)
	seen := map[int]int{}
	for i := range tb.buckets {
		for k := range tb.buckets[i].keys {
			seen[k]++
			assert.Equal(t, uint64(i), tb.hasher(k)%uint64(len(tb.buckets)), "element %v in wrong bucket", k)
		}
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "element %v appears %d times", k, n)
	}
	assert.Equal(t, tb.count(), s.Size())
	assert.Equal(t, len(seen), s.Size())
	assert.Equal(t, tb.capacity(), s.Stats().Capacity)
}

func TestHashSet_AddRemoveContains(t *testing.T) {
	for _, vc := range allVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(4)

			assert.True(t, s.Add(5))
			assert.False(t, s.Add(5))
			assert.True(t, s.Contains(5))
			assert.Equal(t, 1, s.Size())

			assert.True(t, s.Remove(5))
			assert.False(t, s.Remove(5))
			assert.False(t, s.Contains(5))
			assert.Equal(t, 0, s.Size())

			assert.False(t, s.Remove(42), "never added")
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_ResizeOnLoadFactor(t *testing.T) {
	for _, vc := range allVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(4, WithHasher(IntHasher[int]()))
			for i := 1; i <= 20; i++ {
				require.True(t, s.Add(i))
			}

			assert.Equal(t, 20, s.Size())
			assert.True(t, s.Contains(7))
			assert.False(t, s.Contains(21))

			// 17 elements > 4 * 4 buckets triggers exactly one resize, 20 <= 4 * 8
			st := s.Stats()
			assert.Equal(t, 8, st.Capacity)
			assert.EqualValues(t, 1, st.Resizes)
			assert.LessOrEqual(t, st.LoadFactor(), float64(DefaultLoadFactor))
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_Stripes(t *testing.T) {
	striped := NewStripedSet(4, WithHasher(IntHasher[int]()))
	refinable := NewRefinableSet(4, WithHasher(IntHasher[int]()))
	for i := 0; i < 100; i++ {
		striped.Add(i)
		refinable.Add(i)
	}

	// 100 > 4 * 16, so both tables are 32 long
	assert.Equal(t, 32, striped.Stats().Capacity)
	assert.Equal(t, 32, refinable.Stats().Capacity)

	assert.Equal(t, 4, striped.Stats().Stripes, "striped set never changes its lock count")
	assert.Equal(t, 32, refinable.Stats().Stripes, "refinable set doubles its locks with the table")

	fixed := NewRefinableSet(4, WithStripes[int](2))
	fixed.Resize()
	assert.Equal(t, 4, fixed.Stats().Stripes)
	assert.Equal(t, 8, fixed.Stats().Capacity)
}

func TestHashSet_ResizePreservesElements(t *testing.T) {
	for _, vc := range allVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(16)
			for i := 0; i < 50; i++ {
				s.Add(i * 7)
			}
			before := s.Stats()

			s.Resize()

			after := s.Stats()
			assert.Equal(t, before.Capacity*2, after.Capacity)
			assert.Equal(t, before.Resizes+1, after.Resizes)
			assert.Equal(t, 50, s.Size())
			for i := 0; i < 50; i++ {
				assert.True(t, s.Contains(i*7))
			}
			assert.False(t, s.Contains(1))
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_LoadFactorOption(t *testing.T) {
	for _, vc := range allVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(1, WithLoadFactor[int](1))
			for i := 0; i < 10; i++ {
				s.Add(i)
			}
			assert.Equal(t, 16, s.Stats().Capacity)
			assert.LessOrEqual(t, s.Stats().LoadFactor(), 1.0)
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_ResizeHook(t *testing.T) {
	var events []ResizeEvent
	s := NewRefinableSet(2, WithResizeHook[int](func(ev ResizeEvent) {
		events = append(events, ev)
	}))
	for i := 0; i < 9; i++ {
		s.Add(i)
	}

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, VariantRefinable, ev.Variant)
	assert.Equal(t, 2, ev.OldCapacity)
	assert.Equal(t, 4, ev.NewCapacity)
	assert.Equal(t, 2, ev.OldStripes)
	assert.Equal(t, 4, ev.NewStripes)
	assert.Equal(t, 9, ev.Size)
}

func TestHashSet_StringElements(t *testing.T) {
	s := NewRefinableSet(2, WithHasher(StringHasher()))
	for i := 0; i < 100; i++ {
		assert.True(t, s.Add(fmt.Sprintf("key-%d", i)))
	}
	assert.False(t, s.Add("key-42"))
	assert.True(t, s.Remove("key-42"))
	assert.False(t, s.Contains("key-42"))
	assert.True(t, s.Contains("key-99"))
	assert.Equal(t, 99, s.Size())
}

func TestNew(t *testing.T) {
	for _, v := range Variants() {
		s, err := New[int](v, 8)
		require.NoError(t, err)
		assert.True(t, s.Add(1))
		assert.Equal(t, v, s.(Inspector).Stats().Variant)
	}

	_, err := New[int](VariantStriped, 0)
	assert.True(t, errors.Is(err, errs.ErrIllegalArgument))

	_, err = New[int]("lockfree", 8)
	assert.True(t, errors.Is(err, errs.ErrIllegalArgument))

	_, err = New(VariantRefinable, 8, WithStripes[int](3))
	assert.True(t, errors.Is(err, errs.ErrIllegalArgument))

	// stripes are ignored by the unstriped variants
	_, err = New(VariantCoarse, 8, WithStripes[int](3))
	assert.NoError(t, err)

	assert.Panics(t, func() { NewStripedSet[int](0) })
	assert.Panics(t, func() { NewSeqSet[int](-1) })
	assert.Panics(t, func() { NewStripedSet(4, WithStripes[int](8)) })
	assert.Panics(t, func() { NewRefinableSet(6, WithStripes[int](4)) })
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Refinable ")
	require.NoError(t, err)
	assert.Equal(t, VariantRefinable, v)

	_, err = ParseVariant("fine")
	assert.True(t, errors.Is(err, errs.ErrIllegalArgument))
}

func TestHashers(t *testing.T) {
	assert.Equal(t, uint64(42), IntHasher[int]()(42))
	assert.Equal(t, uint64(7), IntHasher[uint8]()(7))

	sh := StringHasher()
	assert.Equal(t, sh("lockset"), sh("lockset"))
	assert.NotEqual(t, sh("lockset"), sh("locksets"))

	type point struct{ x, y int }
	mh := MapHasher[point]()
	assert.Equal(t, mh(point{1, 2}), mh(point{1, 2}))
}

func TestHashSet_ConcurrentEvenOdd(t *testing.T) {
	for _, vc := range concurrentVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(4)
			var wg sync.WaitGroup
			for start := 0; start < 2; start++ {
				wg.Add(1)
				go func(start int) {
					defer wg.Done()
					for i := start; i < 1000; i += 2 {
						s.Add(i)
					}
				}(start)
			}
			wg.Wait()

			assert.Equal(t, 1000, s.Size())
			for i := 0; i < 1000; i++ {
				require.True(t, s.Contains(i), "missing %d", i)
			}
			assert.LessOrEqual(t, s.Stats().LoadFactor(), float64(DefaultLoadFactor))
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_NoLostUpdates(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 2000

	for _, vc := range concurrentVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(2)
			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < perGoroutine; i++ {
						if !s.Add(g*perGoroutine + i) {
							t.Errorf("duplicate add of %d", g*perGoroutine+i)
						}
					}
				}(g)
			}
			wg.Wait()
			assert.Equal(t, goroutines*perGoroutine, s.Size())

			// remove the odd half concurrently
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 1; i < perGoroutine; i += 2 {
						s.Remove(g*perGoroutine + i)
					}
				}(g)
			}
			wg.Wait()
			assert.Equal(t, goroutines*perGoroutine/2, s.Size())
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_ConcurrentAddRemoveSameElement(t *testing.T) {
	for _, vc := range concurrentVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(1)
			for round := 0; round < 500; round++ {
				x := round
				var added, removed bool
				var wg sync.WaitGroup
				wg.Add(2)
				go func() {
					defer wg.Done()
					added = s.Add(x)
				}()
				go func() {
					defer wg.Done()
					removed = s.Remove(x)
				}()
				wg.Wait()

				// either Add then Remove (element gone) or Remove then Add (element present)
				require.True(t, added)
				require.Equal(t, !removed, s.Contains(x), "round %d", round)
			}
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_ConcurrentResizeSameEpoch(t *testing.T) {
	for _, vc := range concurrentVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(2).(concurrentTestSet)
			for i := 0; i < 8; i++ {
				s.Add(i)
			}
			require.EqualValues(t, 0, s.Stats().Resizes)

			const attempts = 16
			start := make(chan struct{})
			results := make(chan bool, attempts)
			var wg sync.WaitGroup
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					results <- s.resize(2)
				}()
			}
			close(start)
			wg.Wait()
			close(results)

			performed := 0
			for ok := range results {
				if ok {
					performed++
				}
			}
			assert.Equal(t, 1, performed)
			assert.EqualValues(t, 1, s.Stats().Resizes)
			assert.Equal(t, 4, s.Stats().Capacity)
			for i := 0; i < 8; i++ {
				assert.True(t, s.Contains(i))
			}
			assertQuiescent(t, s)
		})
	}
}

func TestHashSet_ResizeUnderLoad(t *testing.T) {
	const goroutines = 6
	const keysPerGoroutine = 500

	for _, vc := range concurrentVariants() {
		t.Run(string(vc.variant), func(t *testing.T) {
			s := vc.new(1)
			expected := make([]map[int]bool, goroutines)
			stop := make(chan struct{})

			var resizer sync.WaitGroup
			resizer.Add(1)
			go func() {
				defer resizer.Done()
				for i := 0; i < 3; i++ {
					select {
					case <-stop:
						return
					default:
						s.Resize()
					}
				}
			}()

			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				expected[g] = map[int]bool{}
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					own := expected[g]
					base := g * keysPerGoroutine
					for round := 0; round < 4; round++ {
						for i := 0; i < keysPerGoroutine; i++ {
							k := base + i
							switch (i + round) % 3 {
							case 0, 1:
								if s.Add(k) == own[k] {
									t.Errorf("add %d returned %v, expected present: %v", k, !own[k], own[k])
								}
								own[k] = true
							case 2:
								if s.Remove(k) != own[k] {
									t.Errorf("remove %d returned %v, expected present: %v", k, !own[k], own[k])
								}
								own[k] = false
							}
							if s.Contains(k) != own[k] {
								t.Errorf("contains %d, expected %v", k, own[k])
							}
						}
					}
				}(g)
			}
			wg.Wait()
			close(stop)
			resizer.Wait()

			want := 0
			for g := 0; g < goroutines; g++ {
				for k, present := range expected[g] {
					if present {
						want++
					}
					assert.Equal(t, present, s.Contains(k))
				}
			}
			assert.Equal(t, want, s.Size())
			assert.LessOrEqual(t, s.Stats().LoadFactor(), float64(DefaultLoadFactor))
			assertQuiescent(t, s)
		})
	}
}
