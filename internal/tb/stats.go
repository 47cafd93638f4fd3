package tb

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcStats is a snapshot of the embedded server's resource usage,
// shown in the TUI footer.
type ProcStats struct {
	CPUPercent float64
	RSSBytes   uint64
}

// Stats samples CPU and resident memory for the given pid.
func Stats(pid int) (ProcStats, error) {
	if pid <= 0 {
		return ProcStats{}, fmt.Errorf("no process to sample")
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ProcStats{}, fmt.Errorf("inspect pid %d: %w", pid, err)
	}

	var s ProcStats
	if cpu, err := p.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("memory info for pid %d: %w", pid, err)
	}
	s.RSSBytes = mi.RSS
	return s, nil
}

// String renders the snapshot the way the footer displays it.
func (s ProcStats) String() string {
	return fmt.Sprintf("cpu %.1f%% mem %.1fMiB", s.CPUPercent, float64(s.RSSBytes)/(1024*1024))
}
