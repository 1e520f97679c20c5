package topology

import (
	"fmt"

	"github.com/aryankumar/toposcale/internal/util"
)

// MinRadix is the smallest router radix a run accepts
const MinRadix = 2

// MaxRadix is the largest router radix a run accepts. Dragonfly+ grows with
// the fourth power of the radix and stays below 2^60 endpoints up to here.
const MaxRadix = 65536

// RadixRange is an inclusive interval of router radices
type RadixRange struct {
	Start int `json:"start" yaml:"start"`
	Stop  int `json:"stop" yaml:"stop"`
}

// NewRadixRange validates and returns [start, stop]
func NewRadixRange(start, stop int) (RadixRange, error) {
	r := RadixRange{Start: start, Stop: stop}
	if err := r.Validate(); err != nil {
		return RadixRange{}, err
	}
	return r, nil
}

// Validate returns a ConfigurationError when start < MinRadix, start > stop
// or stop > MaxRadix
func (r RadixRange) Validate() error {
	if r.Start < MinRadix {
		return util.NewConfigurationError("start", r.Start, "starting radix must be at least 2")
	}
	if r.Start > r.Stop {
		return util.NewConfigurationError("stop", r.Stop, "stopping radix must not be less than the starting radix")
	}
	if r.Stop > MaxRadix {
		return util.NewConfigurationError("stop", r.Stop, fmt.Sprintf("stopping radix must be at most %d", MaxRadix))
	}
	return nil
}

// Len returns the number of radices in the range
func (r RadixRange) Len() int {
	if r.Stop < r.Start {
		return 0
	}
	return r.Stop - r.Start + 1
}

// Radix returns the radix stored at result index i
func (r RadixRange) Radix(i int) int {
	return r.Start + i
}

// Radices returns every radix in ascending order
func (r RadixRange) Radices() []int {
	radices := make([]int, r.Len())
	for i := range radices {
		radices[i] = r.Radix(i)
	}
	return radices
}
