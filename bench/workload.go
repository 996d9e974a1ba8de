package bench

import (
	"strings"
	"time"

	"github.com/curtisnewbie/lockset/lockset"
	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/curtisnewbie/lockset/util/hash"
)

const (
	HasherMap = "map"
	HasherInt = "int"
)

// Workload describes one benchmark run against one set variant.
//
// Keys are ints drawn uniformly from [0, KeySpace). Each operation is an Add with probability AddPercent,
// a Remove with probability RemovePercent, and a Contains otherwise.
type Workload struct {
	Variant          hash.Variant
	Capacity         int
	Goroutines       int
	OpsPerGoroutine  int
	KeySpace         int
	AddPercent       int
	RemovePercent    int
	Hasher           string
	LoadFactor       int
	Seed             uint64
	ProgressInterval time.Duration
}

// Build workload for the variant from the loaded props.
func WorkloadFromProps(v hash.Variant) Workload {
	return Workload{
		Variant:          v,
		Capacity:         lockset.GetPropInt(lockset.PropBenchCapacity),
		Goroutines:       lockset.GetPropInt(lockset.PropBenchGoroutines),
		OpsPerGoroutine:  lockset.GetPropInt(lockset.PropBenchOpsPerGoroutine),
		KeySpace:         lockset.GetPropInt(lockset.PropBenchKeySpace),
		AddPercent:       lockset.GetPropInt(lockset.PropBenchMixAdd),
		RemovePercent:    lockset.GetPropInt(lockset.PropBenchMixRemove),
		Hasher:           strings.ToLower(lockset.GetPropStr(lockset.PropBenchHasher)),
		LoadFactor:       lockset.GetPropInt(lockset.PropBenchLoadFactor),
		Seed:             uint64(lockset.GetPropInt64(lockset.PropBenchSeed)),
		ProgressInterval: lockset.GetPropDur(lockset.PropBenchProgressIntervalSec, time.Second),
	}
}

// Parse variants from props.
func VariantsFromProps() ([]hash.Variant, error) {
	names := lockset.GetPropStrSlice(lockset.PropBenchVariants)
	if len(names) < 1 {
		return nil, errs.ErrIllegalArgument.WithInternalMsg("%v is empty", lockset.PropBenchVariants)
	}
	vs := make([]hash.Variant, 0, len(names))
	for _, n := range names {
		v, err := hash.ParseVariant(n)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func (w Workload) Validate() error {
	if _, err := hash.ParseVariant(string(w.Variant)); err != nil {
		return err
	}
	if w.Capacity < 1 {
		return errs.ErrIllegalArgument.WithInternalMsg("capacity must be positive, got %d", w.Capacity)
	}
	if w.Goroutines < 1 {
		return errs.ErrIllegalArgument.WithInternalMsg("goroutines must be positive, got %d", w.Goroutines)
	}
	if w.OpsPerGoroutine < 0 {
		return errs.ErrIllegalArgument.WithInternalMsg("ops per goroutine must not be negative, got %d", w.OpsPerGoroutine)
	}
	if w.KeySpace < 1 {
		return errs.ErrIllegalArgument.WithInternalMsg("key space must be positive, got %d", w.KeySpace)
	}
	if w.AddPercent < 0 || w.RemovePercent < 0 || w.AddPercent+w.RemovePercent > 100 {
		return errs.ErrIllegalArgument.WithInternalMsg("invalid op mix, add: %d%%, remove: %d%%", w.AddPercent, w.RemovePercent)
	}
	if w.Hasher != HasherMap && w.Hasher != HasherInt {
		return errs.ErrIllegalArgument.WithInternalMsg("unknown hasher: '%v'", w.Hasher)
	}
	if w.LoadFactor < 1 {
		return errs.ErrIllegalArgument.WithInternalMsg("load factor must be positive, got %d", w.LoadFactor)
	}
	return nil
}

// SeqSet is not safe for concurrent use, it always runs on a single goroutine.
func (w Workload) goroutines() int {
	if w.Variant == hash.VariantSequential {
		return 1
	}
	return w.Goroutines
}

func (w Workload) hasher() hash.Hasher[int] {
	if w.Hasher == HasherMap {
		return hash.MapHasher[int]()
	}
	return hash.IntHasher[int]()
}
