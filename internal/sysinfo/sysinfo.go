// Package sysinfo detects the host resources used to size the CPU pool.
package sysinfo

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned when free memory cannot be read on this OS
var ErrUnsupported = errors.New("memory detection not supported on this platform")

// Resources describes the host capacity visible to the process
type Resources struct {
	// CPUs is the number of logical CPUs usable by the process
	CPUs int `json:"cpus" yaml:"cpus"`

	// AvailableMemoryGiB is free memory, 0 if unknown
	AvailableMemoryGiB float64 `json:"availableMemoryGiB" yaml:"availableMemoryGiB"`
}

// Detect returns the host resources. Failing to read memory is not an error;
// memory is reported as 0 and the CPU count is still returned.
func Detect() Resources {
	r := Resources{CPUs: CPUCount()}
	if mem, err := AvailableMemoryGiB(); err == nil {
		r.AvailableMemoryGiB = mem
	}
	return r
}

// CPUCount returns the number of logical CPUs
func CPUCount() int {
	return runtime.NumCPU()
}

// PoolCapacity returns override when positive, the detected CPU count otherwise
func PoolCapacity(override int) int {
	if override > 0 {
		return override
	}
	return CPUCount()
}
