package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWorkerCount returns the number of logical CPUs, the pool size used
// when a config leaves NumWorkers at 0
func DefaultWorkerCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}

// CPUModel returns a human readable description of the first CPU, or "" when unknown
func CPUModel() string {
	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		return ""
	}
	return info[0].ModelName
}
