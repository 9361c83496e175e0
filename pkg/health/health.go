// Package health reports server runtime and host information.
package health

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine the server runs on
type HostInfo struct {
	Hostname      string `json:"hostname"`
	Platform      string `json:"platform"`
	OS            string `json:"os"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

// Info represents server runtime information
type Info struct {
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	ActiveClients int       `json:"active_clients"`
	Goroutines    int       `json:"goroutines"`
	MemoryMB      uint64    `json:"memory_mb"`
	HostMemoryMB  uint64    `json:"host_memory_mb,omitempty"`
	Host          *HostInfo `json:"host,omitempty"`
}

// Monitor tracks server runtime metrics
type Monitor struct {
	startTime time.Time
	version   string
}

// NewMonitor creates a new health monitor
func NewMonitor(version string) *Monitor {
	return &Monitor{
		startTime: time.Now(),
		version:   version,
	}
}

// GetInfo returns the current server runtime information. Host-level stats
// are best effort and omitted when the platform cannot provide them.
func (m *Monitor) GetInfo(activeClients int) *Info {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	info := &Info{
		Version:       m.version,
		Timestamp:     time.Now(),
		UptimeSeconds: int64(time.Since(m.startTime).Seconds()),
		ActiveClients: activeClients,
		Goroutines:    runtime.NumGoroutine(),
		MemoryMB:      memStats.Alloc / 1024 / 1024,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.HostMemoryMB = vm.Used / 1024 / 1024
	}
	if hi, err := host.Info(); err == nil {
		info.Host = &HostInfo{
			Hostname:      hi.Hostname,
			Platform:      hi.Platform,
			OS:            hi.OS,
			UptimeSeconds: hi.Uptime,
		}
	}

	return info
}
