//go:build linux

package sysinfo

import (
	"golang.org/x/sys/unix"
)

// AvailableMemoryGiB returns free plus buffer memory in GiB
func AvailableMemoryGiB() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	free := (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
	return float64(free) / (1 << 30), nil
}
