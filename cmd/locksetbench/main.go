package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curtisnewbie/lockset/bench"
	"github.com/curtisnewbie/lockset/lockset"
	"github.com/curtisnewbie/lockset/metrics"
	"github.com/curtisnewbie/lockset/version"
	_ "go.uber.org/automaxprocs"
)

const (
	OutputTable = "table"
	OutputJson  = "json"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	lockset.DefaultReadConfig(args)
	closer := lockset.SetupLogging()
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	variants, err := bench.VariantsFromProps()
	if err != nil {
		lockset.Errorf("Invalid configuration, %v", err)
		return 2
	}

	var opts bench.Options
	if lockset.GetPropBool(lockset.PropMetricsEnabled) {
		opts.Collector = metrics.DefaultCollector()
		srv := metrics.NewServer(lockset.GetPropStr(lockset.PropMetricsAddress))
		go func() {
			lockset.Infof("Serving prometheus metrics on %v/metrics", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lockset.Errorf("Metrics server failed, %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				lockset.Warnf("Failed to shutdown metrics server, %v", err)
			}
		}()
	}

	host := bench.HostInfo()
	lockset.Infof("Running %v (lockset %v) on %v", lockset.GetPropStr(lockset.PropAppName), version.Version, host)

	reports := make([]bench.Report, 0, len(variants))
	for _, v := range variants {
		w := bench.WorkloadFromProps(v)
		lockset.Infof("Benchmarking %v set", v)
		r, err := bench.Run(ctx, w, opts)
		if err != nil {
			lockset.Errorf("Benchmark of %v failed, %v", v, err)
			return 1
		}
		lockset.Infof("Benchmarked %v set, %.0f ops/s, %v", v, r.OpsPerSec, r.Stats)
		reports = append(reports, r)
	}

	switch out := lockset.GetPropStr(lockset.PropBenchOutput); out {
	case OutputJson:
		s, err := bench.FormatJson(host, reports)
		if err != nil {
			lockset.Errorf("Failed to format reports, %v", err)
			return 1
		}
		fmt.Println(s)
	default:
		if out != OutputTable {
			lockset.Warnf("Unknown %v: '%v', using %v", lockset.PropBenchOutput, out, OutputTable)
		}
		fmt.Println(bench.FormatTable(host, reports))
	}

	code := 0
	for _, r := range reports {
		if !r.Consistent {
			lockset.Errorf("Inconsistent %v set, size: %d, present: %d, add hits: %d, remove hits: %d",
				r.Variant, r.FinalSize, r.Present, r.AddHits, r.RemoveHits)
			code = 1
		}
	}

	if opts.Collector != nil && lockset.GetPropBool(lockset.PropMetricsHoldAfterRun) {
		lockset.Infof("Benchmark finished, serving metrics until interrupted")
		<-ctx.Done()
	}
	return code
}
