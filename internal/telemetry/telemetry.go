// Package telemetry samples real host metrics to dress the fake terminal's
// status bar. The numbers are real; only the hacking is pretend.
package telemetry

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStatus is one sample of the machine the game runs on.
type HostStatus struct {
	Hostname   string    `json:"hostname"`
	OS         string    `json:"os"`
	UptimeSec  uint64    `json:"uptimeSec"`
	CPUPercent float64   `json:"cpuPercent"`
	MemPercent float64   `json:"memPercent"`
	MemUsedMB  uint64    `json:"memUsedMb"`
	MemTotalMB uint64    `json:"memTotalMb"`
	SampledAt  time.Time `json:"sampledAt"`
}

// Sample reads the current host status. Individual probe failures leave the
// corresponding fields zero rather than failing the whole sample; the status
// bar degrades, the game does not.
func Sample() HostStatus {
	s := HostStatus{SampledAt: time.Now().UTC()}

	if info, err := host.Info(); err == nil {
		s.Hostname = info.Hostname
		s.OS = info.OS
		s.UptimeSec = info.Uptime
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemPercent = vm.UsedPercent
		s.MemUsedMB = vm.Used / (1 << 20)
		s.MemTotalMB = vm.Total / (1 << 20)
	}
	return s
}
