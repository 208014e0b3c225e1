// Package resources samples process and host resource usage. The server exposes the
// latest sample on its health endpoint and batch jobs use the core count to size
// their worker pools.
package resources

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Usage is one resource sample.
type Usage struct {
	AllocMB              int64     `json:"alloc_mb"`
	SysMB                int64     `json:"sys_mb"`
	Goroutines           int       `json:"goroutines"`
	GCCount              int64     `json:"gc_count"`
	SystemMemUsedMB      int64     `json:"system_mem_used_mb,omitempty"`
	SystemMemTotalMB     int64     `json:"system_mem_total_mb,omitempty"`
	SystemMemUsedPercent float64   `json:"system_mem_used_percent,omitempty"`
	CPUUsagePercent      float64   `json:"cpu_usage_percent,omitempty"`
	SampledAt            time.Time `json:"sampled_at"`
}

// Sample reads the Go runtime counters plus host memory. CPU percentage is only
// measured when cpuWindow > 0, since that call blocks for the window.
func Sample(cpuWindow time.Duration) Usage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	u := Usage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
		SampledAt:  time.Now().UTC(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		u.SystemMemUsedMB = int64(vm.Used / 1024 / 1024)
		u.SystemMemTotalMB = int64(vm.Total / 1024 / 1024)
		u.SystemMemUsedPercent = vm.UsedPercent
	}

	if cpuWindow > 0 {
		if pct, err := cpu.Percent(cpuWindow, false); err == nil && len(pct) > 0 {
			u.CPUUsagePercent = pct[0]
		}
	}

	return u
}

// PhysicalCores returns the physical core count, or runtime.NumCPU when the host
// does not report one.
func PhysicalCores() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Workers sizes a worker pool: configured when positive, otherwise PhysicalCores.
func Workers(configured int) int {
	if configured > 0 {
		return configured
	}
	return PhysicalCores()
}
