package hash

import (
	"fmt"
	"strings"
	"time"

	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/curtisnewbie/lockset/util/utillog"
)

const (
	// Resize is triggered once size > DefaultLoadFactor * capacity.
	DefaultLoadFactor = 4
)

// Set operations shared by all variants.
//
// Add and Remove return whether the set was modified, a duplicate Add or a Remove of a missing element is not an error.
type HashSet[T comparable] interface {
	Add(e T) bool
	Remove(e T) bool
	Contains(e T) bool
	Size() int
}

// Inspector exposes the structural state of a set, mostly for metrics and tests.
type Inspector interface {
	Stats() Stats
}

type Variant string

const (
	VariantSequential Variant = "sequential"
	VariantCoarse     Variant = "coarse"
	VariantStriped    Variant = "striped"
	VariantRefinable  Variant = "refinable"
)

// All supported variants, from the least to the most fine-grained.
func Variants() []Variant {
	return []Variant{VariantSequential, VariantCoarse, VariantStriped, VariantRefinable}
}

// Parse variant name, case insensitive.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Variants() {
		if k == v {
			return v, nil
		}
	}
	return "", errs.ErrIllegalArgument.WithInternalMsg("unknown set variant: '%v'", s)
}

// Snapshot of a set's structural state.
type Stats struct {
	Variant  Variant
	Size     int
	Capacity int   // table length
	Stripes  int   // number of locks, 0 for the sequential set
	Resizes  int64 // number of completed resizes
}

func (s Stats) LoadFactor() float64 {
	if s.Capacity < 1 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}

func (s Stats) String() string {
	return fmt.Sprintf("%v{size: %d, capacity: %d, stripes: %d, resizes: %d}", s.Variant, s.Size, s.Capacity, s.Stripes, s.Resizes)
}

// Emitted once a resize has completed and every lock taken by it is released.
type ResizeEvent struct {
	Variant     Variant
	OldCapacity int
	NewCapacity int
	OldStripes  int
	NewStripes  int
	Size        int
	Took        time.Duration
}

type options[T comparable] struct {
	hasher     Hasher[T]
	loadFactor int
	stripes    int
	hooks      []func(ResizeEvent)
}

type Option[T comparable] func(o *options[T])

// Use the given Hasher instead of [MapHasher].
func WithHasher[T comparable](h Hasher[T]) Option[T] {
	return func(o *options[T]) {
		if h != nil {
			o.hasher = h
		}
	}
}

// Resize once size > n * capacity. Values less than 1 are ignored.
func WithLoadFactor[T comparable](n int) Option[T] {
	return func(o *options[T]) {
		if n > 0 {
			o.loadFactor = n
		}
	}
}

// Initial number of stripes, by default it's the same as the initial capacity.
//
// n must divide the initial capacity, elements sharing a bucket must always share a stripe.
//
// Only [StripedSet] and [RefinableSet] use stripes. Values less than 1 are ignored.
func WithStripes[T comparable](n int) Option[T] {
	return func(o *options[T]) {
		if n > 0 {
			o.stripes = n
		}
	}
}

// Register hook that is called after each completed resize.
//
// The hook runs on the goroutine that performed the resize, after the locks are released.
func WithResizeHook[T comparable](f func(ResizeEvent)) Option[T] {
	return func(o *options[T]) {
		if f != nil {
			o.hooks = append(o.hooks, f)
		}
	}
}

func buildOptions[T comparable](capacity int, opts []Option[T]) options[T] {
	o := options[T]{loadFactor: DefaultLoadFactor, stripes: capacity}
	for _, op := range opts {
		op(&o)
	}
	if o.hasher == nil {
		o.hasher = MapHasher[T]()
	}
	return o
}

func (o *options[T]) exceeded(size int, capacity int) bool {
	return size > o.loadFactor*capacity
}

func (o *options[T]) emit(ev ResizeEvent) {
	utillog.DebugLog("Resized %v set, capacity: %d -> %d, stripes: %d -> %d, size: %d, took: %v",
		ev.Variant, ev.OldCapacity, ev.NewCapacity, ev.OldStripes, ev.NewStripes, ev.Size, ev.Took)
	for _, h := range o.hooks {
		h(ev)
	}
}

func mustCapacity(capacity int) {
	if err := checkCapacity(capacity); err != nil {
		panic(err)
	}
}

func mustStripes(capacity int, stripes int) {
	if err := checkStripes(capacity, stripes); err != nil {
		panic(err)
	}
}

func checkStripes(capacity int, stripes int) error {
	if capacity%stripes != 0 {
		return errs.ErrIllegalArgument.WithInternalMsg("stripes must divide capacity, capacity: %d, stripes: %d", capacity, stripes)
	}
	return nil
}

func checkCapacity(capacity int) error {
	if capacity < 1 {
		return errs.ErrIllegalArgument.WithInternalMsg("capacity must be positive, got %d", capacity)
	}
	return nil
}

// Create set of the given variant.
//
// Unlike the variant specific constructors, New doesn't panic on invalid capacity or stripes.
func New[T comparable](v Variant, capacity int, opts ...Option[T]) (HashSet[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	if v == VariantStriped || v == VariantRefinable {
		if err := checkStripes(capacity, buildOptions(capacity, opts).stripes); err != nil {
			return nil, err
		}
	}
	switch v {
	case VariantSequential:
		return NewSeqSet(capacity, opts...), nil
	case VariantCoarse:
		return NewCoarseSet(capacity, opts...), nil
	case VariantStriped:
		return NewStripedSet(capacity, opts...), nil
	case VariantRefinable:
		return NewRefinableSet(capacity, opts...), nil
	}
	return nil, errs.ErrIllegalArgument.WithInternalMsg("unknown set variant: '%v'", v)
}
