package resources

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MonitorConfig holds configuration for the resource monitor
type MonitorConfig struct {
	CheckInterval time.Duration // How often to sample
	MemoryWarnMB  int64         // Warn when heap allocation exceeds this; 0 disables
	CPUWindow     time.Duration // CPU measurement window per sample; 0 skips CPU
}

// DefaultMonitorConfig returns default configuration
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CheckInterval: 30 * time.Second,
		MemoryWarnMB:  1024,
		CPUWindow:     100 * time.Millisecond,
	}
}

// Monitor samples usage on an interval and keeps the latest sample.
type Monitor struct {
	config MonitorConfig
	logger zerolog.Logger

	mu      sync.RWMutex
	latest  Usage
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewMonitor creates a monitor. It takes one sample immediately so Latest is never
// empty.
func NewMonitor(config MonitorConfig, logger zerolog.Logger) *Monitor {
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultMonitorConfig().CheckInterval
	}
	return &Monitor{
		config: config,
		logger: logger.With().Str("component", "ResourceMonitor").Logger(),
		latest: Sample(0),
	}
}

// Start begins sampling until ctx is done or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	m.wg.Add(1)
	go m.loop(ctx)

	m.logger.Info().
		Dur("check_interval", m.config.CheckInterval).
		Int64("memory_warn_mb", m.config.MemoryWarnMB).
		Msg("Resource monitor started")
}

// Stop halts sampling and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info().Msg("Resource monitor stopped")
}

// Latest returns the most recent sample.
func (m *Monitor) Latest() Usage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.record(Sample(m.config.CPUWindow))
		}
	}
}

func (m *Monitor) record(u Usage) {
	m.mu.Lock()
	m.latest = u
	m.mu.Unlock()

	if m.config.MemoryWarnMB > 0 && u.AllocMB > m.config.MemoryWarnMB {
		m.logger.Warn().
			Int64("alloc_mb", u.AllocMB).
			Int64("warn_mb", m.config.MemoryWarnMB).
			Msg("Memory usage above warning threshold")
	}

	m.logger.Debug().
		Int64("alloc_mb", u.AllocMB).
		Int64("sys_mb", u.SysMB).
		Int("goroutines", u.Goroutines).
		Float64("system_mem_percent", u.SystemMemUsedPercent).
		Float64("cpu_percent", u.CPUUsagePercent).
		Msg("Current resource usage")
}
