// Prometheus collectors for lockset hash sets.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/curtisnewbie/lockset/util/hash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "lockset"
)

var (
	defaultCollector     *SetCollector
	defaultCollectorOnce sync.Once
)

// Collectors of set resizes and operations, labelled by set variant.
//
// To create a new SetCollector, use [NewSetCollector], or [DefaultCollector] for the one registered to the default registry.
type SetCollector struct {
	resizes        *prometheus.CounterVec
	resizeDuration *prometheus.HistogramVec
	capacity       *prometheus.GaugeVec
	stripes        *prometheus.GaugeVec
	ops            *prometheus.CounterVec
}

func NewSetCollector() *SetCollector {
	return &SetCollector{
		resizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resize_total",
			Help:      "Number of completed resizes.",
		}, []string{"variant"}),
		resizeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resize_duration_seconds",
			Help:      "Time spent rehashing the table, locks held.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"variant"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capacity",
			Help:      "Table length after the latest resize.",
		}, []string{"variant"}),
		stripes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stripes",
			Help:      "Number of locks after the latest resize.",
		}, []string{"variant"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Number of set operations, result is whether the operation returned true.",
		}, []string{"variant", "op", "result"}),
	}
}

// Register every collector, returns the first error.
func (c *SetCollector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.resizes, c.resizeDuration, c.capacity, c.stripes, c.ops} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Create hook for hash.WithResizeHook.
func (c *SetCollector) ResizeHook() func(hash.ResizeEvent) {
	return func(ev hash.ResizeEvent) {
		v := string(ev.Variant)
		c.resizes.WithLabelValues(v).Inc()
		c.resizeDuration.WithLabelValues(v).Observe(ev.Took.Seconds())
		c.capacity.WithLabelValues(v).Set(float64(ev.NewCapacity))
		c.stripes.WithLabelValues(v).Set(float64(ev.NewStripes))
	}
}

// Record initial structure of the set, resize hooks only fire on change.
func (c *SetCollector) ObserveStats(st hash.Stats) {
	v := string(st.Variant)
	c.capacity.WithLabelValues(v).Set(float64(st.Capacity))
	c.stripes.WithLabelValues(v).Set(float64(st.Stripes))
}

// Add n operations of the given kind and result.
func (c *SetCollector) AddOps(variant hash.Variant, op string, result bool, n int64) {
	if n < 1 {
		return
	}
	r := "false"
	if result {
		r = "true"
	}
	c.ops.WithLabelValues(string(variant), op, r).Add(float64(n))
}

// Get the collector registered to prometheus.DefaultRegisterer.
func DefaultCollector() *SetCollector {
	defaultCollectorOnce.Do(func() {
		defaultCollector = NewSetCollector()
		if err := defaultCollector.Register(prometheus.DefaultRegisterer); err != nil {
			panic(err)
		}
	})
	return defaultCollector
}

func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// Create http server exposing PrometheusHandler at /metrics.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", PrometheusHandler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
