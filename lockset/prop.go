package lockset

// lockset-section: Common Configuration
const (

	// lockset-prop: name of the application | lockset-bench
	PropAppName = "app.name"
)

// lockset-section: Logging Configuration
const (

	// lockset-prop: log level | info
	PropLoggingLevel = "logging.level"

	// lockset-prop: path to rolling log file, logs are only written to stdout if it's empty
	PropLoggingRollingFile = "logging.rolling.file"

	// lockset-prop: max size of each rolling log file in mb | 50
	PropLoggingRollingFileMaxSize = "logging.rolling.max-size"

	// lockset-prop: max age of rolling log files in days | 7
	PropLoggingRollingFileMaxAge = "logging.rolling.max-age"

	// lockset-prop: max number of rolling log files kept | 10
	PropLoggingRollingFileMaxBackups = "logging.rolling.max-backups"
)

// lockset-section: Benchmark Configuration
const (

	// lockset-prop: comma separated set variants to run: sequential, coarse, striped, refinable | coarse,striped,refinable
	PropBenchVariants = "bench.variants"

	// lockset-prop: initial table capacity | 16
	PropBenchCapacity = "bench.capacity"

	// lockset-prop: number of goroutines, the sequential variant always runs on one goroutine | 8
	PropBenchGoroutines = "bench.goroutines"

	// lockset-prop: operations performed by each goroutine | 100000
	PropBenchOpsPerGoroutine = "bench.ops-per-goroutine"

	// lockset-prop: keys are drawn from [0, key-space) | 65536
	PropBenchKeySpace = "bench.key-space"

	// lockset-prop: percentage of Add operations | 30
	PropBenchMixAdd = "bench.mix.add"

	// lockset-prop: percentage of Remove operations, the rest are Contains | 20
	PropBenchMixRemove = "bench.mix.remove"

	// lockset-prop: hasher used by the set: map, int | int
	PropBenchHasher = "bench.hasher"

	// lockset-prop: load factor that triggers resize | 4
	PropBenchLoadFactor = "bench.load-factor"

	// lockset-prop: seed of the key generators | 1
	PropBenchSeed = "bench.seed"

	// lockset-prop: interval of progress logs in seconds, 0 disables them | 0
	PropBenchProgressIntervalSec = "bench.progress-interval-sec"

	// lockset-prop: report format: table, json | table
	PropBenchOutput = "bench.output"
)

// lockset-section: Metrics Configuration
const (

	// lockset-prop: enable prometheus metrics | false
	PropMetricsEnabled = "metrics.enabled"

	// lockset-prop: address of the prometheus /metrics endpoint | 127.0.0.1:9090
	PropMetricsAddress = "metrics.address"

	// lockset-prop: keep serving metrics after the benchmark until interrupted | false
	PropMetricsHoldAfterRun = "metrics.hold-after-run"
)

// lockset-default-start
func init() {
	SetDefProp(PropAppName, "lockset-bench")
	SetDefProp(PropLoggingLevel, "info")
	SetDefProp(PropLoggingRollingFileMaxSize, 50)
	SetDefProp(PropLoggingRollingFileMaxAge, 7)
	SetDefProp(PropLoggingRollingFileMaxBackups, 10)
	SetDefProp(PropBenchVariants, "coarse,striped,refinable")
	SetDefProp(PropBenchCapacity, 16)
	SetDefProp(PropBenchGoroutines, 8)
	SetDefProp(PropBenchOpsPerGoroutine, 100000)
	SetDefProp(PropBenchKeySpace, 65536)
	SetDefProp(PropBenchMixAdd, 30)
	SetDefProp(PropBenchMixRemove, 20)
	SetDefProp(PropBenchHasher, "int")
	SetDefProp(PropBenchLoadFactor, 4)
	SetDefProp(PropBenchSeed, 1)
	SetDefProp(PropBenchProgressIntervalSec, 0)
	SetDefProp(PropBenchOutput, "table")
	SetDefProp(PropMetricsEnabled, false)
	SetDefProp(PropMetricsAddress, "127.0.0.1:9090")
	SetDefProp(PropMetricsHoldAfterRun, false)
}

// lockset-default-end
