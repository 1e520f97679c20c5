//go:build !linux

package sysinfo

// AvailableMemoryGiB is not implemented outside Linux
func AvailableMemoryGiB() (float64, error) {
	return 0, ErrUnsupported
}
