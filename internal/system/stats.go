package system

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine the renderer runs on.
type HostInfo struct {
	LogicalCPUs  int
	CPUPercent   float64
	MemTotal     uint64
	MemAvailable uint64
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%d CPU (%.0f%% load), RAM %s свободно из %s",
		h.LogicalCPUs, h.CPUPercent, formatBytes(h.MemAvailable), formatBytes(h.MemTotal))
}

// HostStats samples CPU and memory. Values that cannot be read fall back to
// runtime.NumCPU and zero.
func HostStats() HostInfo {
	info := HostInfo{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCPUs = n
	}
	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		info.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = vm.Total
		info.MemAvailable = vm.Available
	}
	return info
}

// SuggestWorkers sizes the render pool: one worker per logical CPU, no
// more than the available memory holds at perWorker bytes each, at least 1.
func SuggestWorkers(h HostInfo, perWorker uint64) int {
	n := h.LogicalCPUs
	if perWorker > 0 && h.MemAvailable > 0 {
		if byMem := int(h.MemAvailable / perWorker); byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// FrameBytes is the size of one RGBA frame.
func FrameBytes(width, height int) uint64 {
	return uint64(width) * uint64(height) * 4
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
