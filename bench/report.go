package bench

import (
	"fmt"
	"runtime"
	"time"

	"github.com/curtisnewbie/lockset/encoding/json"
	"github.com/curtisnewbie/lockset/util/hash"
	"github.com/curtisnewbie/lockset/util/tableutil"
	"github.com/shirou/gopsutil/cpu"
	"github.com/spf13/cast"
)

type Report struct {
	Variant      hash.Variant
	Goroutines   int
	Ops          int64
	Adds         int64
	AddHits      int64
	Removes      int64
	RemoveHits   int64
	Contains     int64
	ContainsHits int64
	Elapsed      time.Duration
	OpsPerSec    float64
	FinalSize    int
	Present      int  // keys in the key space for which Contains returned true after the run
	Consistent   bool // Present == FinalSize == AddHits - RemoveHits
	Stats        hash.Stats
}

type Host struct {
	PhysicalCores int
	LogicalCores  int
	CPUModel      string
	GOMAXPROCS    int
	GoVersion     string
}

// Collect host info for the report header, fields that can't be loaded are left empty.
func HostInfo() Host {
	h := Host{
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GoVersion:  runtime.Version(),
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCores = n
	}
	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCores = n
	}
	if inf, err := cpu.Info(); err == nil && len(inf) > 0 {
		h.CPUModel = inf[0].ModelName
	}
	return h
}

func (h Host) String() string {
	return fmt.Sprintf("cpu: %v, cores: %d physical / %d logical, GOMAXPROCS: %d, %v",
		h.CPUModel, h.PhysicalCores, h.LogicalCores, h.GOMAXPROCS, h.GoVersion)
}

var tableHeader = []string{
	"variant", "goroutines", "ops", "ops/s", "elapsed", "size", "capacity", "stripes", "resizes", "load", "consistent",
}

// Render reports as plain text table.
func FormatTable(host Host, reports []Report) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			string(r.Variant),
			cast.ToString(r.Goroutines),
			cast.ToString(r.Ops),
			fmt.Sprintf("%.0f", r.OpsPerSec),
			r.Elapsed.Round(time.Microsecond).String(),
			cast.ToString(r.FinalSize),
			cast.ToString(r.Stats.Capacity),
			cast.ToString(r.Stats.Stripes),
			cast.ToString(r.Stats.Resizes),
			fmt.Sprintf("%.2f", r.Stats.LoadFactor()),
			cast.ToString(r.Consistent),
		})
	}
	return host.String() + "\n\n" + tableutil.Render(tableHeader, rows)
}

// Render reports as indented json.
func FormatJson(host Host, reports []Report) (string, error) {
	return json.SWriteIndent(struct {
		Host    Host
		Reports []Report
	}{host, reports})
}
