package observability

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is the payload served by /health.
type ProcessStats struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	NumGC         uint32  `json:"num_gc"`
	RSSMb         uint64  `json:"rss_mb"`
	CPUPercent    float64 `json:"cpu_percent"`
}

type StatsCollector struct {
	startedAt time.Time
	proc      *process.Process
}

// NewStatsCollector watches the current process.
// RSS and CPU stay at zero when the OS refuses to describe the process.
func NewStatsCollector() *StatsCollector {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		proc = nil
	}
	return &StatsCollector{startedAt: time.Now(), proc: proc}
}

func (c *StatsCollector) Collect() ProcessStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ProcessStats{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		AllocMemMb:    m.Alloc / 1024 / 1024,
		NumGC:         m.NumGC,
	}
	if c.proc == nil {
		return stats
	}
	if mem, err := c.proc.MemoryInfo(); err == nil {
		stats.RSSMb = mem.RSS / 1024 / 1024
	}
	if cpu, err := c.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
