package bench

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/curtisnewbie/lockset/lockset"
	"github.com/curtisnewbie/lockset/metrics"
	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/curtisnewbie/lockset/util/hash"
	"golang.org/x/sync/errgroup"
)

const (
	// ctx is checked once every ctxCheckMask+1 operations
	ctxCheckMask = 1023
)

type Options struct {
	// optional, receives resize events and op counts
	Collector *metrics.SetCollector
}

type opCounts struct {
	Adds, AddHits          int64
	Removes, RemoveHits    int64
	Contains, ContainsHits int64
}

func (c *opCounts) merge(o opCounts) {
	c.Adds += o.Adds
	c.AddHits += o.AddHits
	c.Removes += o.Removes
	c.RemoveHits += o.RemoveHits
	c.Contains += o.Contains
	c.ContainsHits += o.ContainsHits
}

func (c *opCounts) total() int64 {
	return c.Adds + c.Removes + c.Contains
}

// Run workload against a freshly created set.
//
// The returned report includes a consistency check performed after every goroutine has finished:
// Size() must be equal to the number of keys in [0, KeySpace) for which Contains() returns true.
func Run(ctx context.Context, w Workload, opts Options) (Report, error) {
	if err := w.Validate(); err != nil {
		return Report{}, err
	}

	setOpts := []hash.Option[int]{
		hash.WithHasher(w.hasher()),
		hash.WithLoadFactor[int](w.LoadFactor),
	}
	if opts.Collector != nil {
		setOpts = append(setOpts, hash.WithResizeHook[int](opts.Collector.ResizeHook()))
	}

	set, err := hash.New(w.Variant, w.Capacity, setOpts...)
	if err != nil {
		return Report{}, err
	}
	inspector := set.(hash.Inspector)
	if opts.Collector != nil {
		opts.Collector.ObserveStats(inspector.Stats())
	}

	goroutines := w.goroutines()
	totalOps := int64(goroutines) * int64(w.OpsPerGoroutine)
	var done atomic.Int64

	if w.ProgressInterval > 0 {
		sched := lockset.NewScheduler()
		err := sched.Schedule(lockset.Job{
			Name:  "bench-progress-" + string(w.Variant),
			Every: w.ProgressInterval,
			Run: func() error {
				// SeqSet must not be inspected while the worker is running
				if w.Variant == hash.VariantSequential {
					lockset.Infof("Benchmarking %v, %d/%d ops", w.Variant, done.Load(), totalOps)
				} else {
					lockset.Infof("Benchmarking %v, %d/%d ops, %v", w.Variant, done.Load(), totalOps, inspector.Stats())
				}
				return nil
			},
		})
		if err != nil {
			return Report{}, err
		}
		sched.StartAsync()
		defer sched.Stop()
	}

	lockset.Debugf("Benchmarking %v, goroutines: %d, ops per goroutine: %d, key space: %d",
		w.Variant, goroutines, w.OpsPerGoroutine, w.KeySpace)

	var (
		mu     sync.Mutex
		counts opCounts
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < goroutines; i++ {
		worker := uint64(i)
		g.Go(func() error {
			var local opCounts
			var reported int64
			rng := rand.New(rand.NewPCG(w.Seed, worker))
			for n := 0; n < w.OpsPerGoroutine; n++ {
				if n&ctxCheckMask == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
					if n > 0 {
						done.Add(ctxCheckMask + 1)
						reported += ctxCheckMask + 1
					}
				}
				k := rng.IntN(w.KeySpace)
				p := rng.IntN(100)
				switch {
				case p < w.AddPercent:
					local.Adds++
					if set.Add(k) {
						local.AddHits++
					}
				case p < w.AddPercent+w.RemovePercent:
					local.Removes++
					if set.Remove(k) {
						local.RemoveHits++
					}
				default:
					local.Contains++
					if set.Contains(k) {
						local.ContainsHits++
					}
				}
			}
			done.Add(int64(w.OpsPerGoroutine) - reported)

			mu.Lock()
			counts.merge(local)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, errs.WrapErrf(err, "benchmark of %v interrupted", w.Variant)
	}
	elapsed := time.Since(start)

	present := 0
	for k := 0; k < w.KeySpace; k++ {
		if set.Contains(k) {
			present++
		}
	}

	if opts.Collector != nil {
		c := opts.Collector
		c.AddOps(w.Variant, "add", true, counts.AddHits)
		c.AddOps(w.Variant, "add", false, counts.Adds-counts.AddHits)
		c.AddOps(w.Variant, "remove", true, counts.RemoveHits)
		c.AddOps(w.Variant, "remove", false, counts.Removes-counts.RemoveHits)
		c.AddOps(w.Variant, "contains", true, counts.ContainsHits)
		c.AddOps(w.Variant, "contains", false, counts.Contains-counts.ContainsHits)
	}

	r := Report{
		Variant:      w.Variant,
		Goroutines:   goroutines,
		Ops:          counts.total(),
		Adds:         counts.Adds,
		AddHits:      counts.AddHits,
		Removes:      counts.Removes,
		RemoveHits:   counts.RemoveHits,
		Contains:     counts.Contains,
		ContainsHits: counts.ContainsHits,
		Elapsed:      elapsed,
		FinalSize:    set.Size(),
		Present:      present,
		Consistent:   present == set.Size() && counts.AddHits-counts.RemoveHits == int64(set.Size()),
		Stats:        inspector.Stats(),
	}
	if elapsed > 0 {
		r.OpsPerSec = float64(r.Ops) / elapsed.Seconds()
	}
	return r, nil
}
