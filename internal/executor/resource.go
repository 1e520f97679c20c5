package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/aryankumar/toposcale/internal/util"
	"golang.org/x/sync/semaphore"
)

// ResourcePool is a named counting resource with a fixed capacity.
// Tasks acquire units before running and release them on completion.
type ResourcePool struct {
	name     string
	capacity int

	// sem blocks acquirers until units are free
	sem *semaphore.Weighted

	// mu guards inUse, which mirrors the semaphore for accounting
	mu    sync.Mutex
	inUse int
}

// NewResourcePool creates a pool with the given capacity
// capacity must be >= 1, otherwise a ResourceError is returned
func NewResourcePool(name string, capacity int) (*ResourcePool, error) {
	if capacity < 1 {
		return nil, &util.ResourceError{
			Resource:  name,
			Requested: 0,
			Capacity:  capacity,
			Message:   "capacity must be at least 1",
		}
	}

	return &ResourcePool{
		name:     name,
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
	}, nil
}

// Check reports whether a single request of n units could ever be granted
func (p *ResourcePool) Check(n int) error {
	if n < 1 {
		return &util.ResourceError{Resource: p.name, Requested: n, Capacity: p.capacity, Message: "request must be at least 1"}
	}
	if n > p.capacity {
		return &util.ResourceError{Resource: p.name, Requested: n, Capacity: p.capacity, Message: "request exceeds capacity"}
	}
	return nil
}

// Acquire blocks until n units are available or ctx is done
// Requests larger than capacity fail immediately instead of deadlocking
func (p *ResourcePool) Acquire(ctx context.Context, n int) error {
	if err := p.Check(n); err != nil {
		return err
	}

	if err := p.sem.Acquire(ctx, int64(n)); err != nil {
		return fmt.Errorf("acquire %d %s: %w", n, p.name, err)
	}

	p.mu.Lock()
	p.inUse += n
	p.mu.Unlock()

	return nil
}

// Release returns n units to the pool
// Releasing more than is currently held is an error and leaves the pool unchanged
func (p *ResourcePool) Release(n int) error {
	p.mu.Lock()
	if n < 1 || n > p.inUse {
		held := p.inUse
		p.mu.Unlock()
		return &util.ResourceError{
			Resource:  p.name,
			Requested: n,
			Capacity:  p.capacity,
			Message:   fmt.Sprintf("release does not match %d held", held),
		}
	}
	p.inUse -= n
	p.mu.Unlock()

	p.sem.Release(int64(n))
	return nil
}

// Name returns the resource name
func (p *ResourcePool) Name() string {
	return p.name
}

// Capacity returns the fixed capacity
func (p *ResourcePool) Capacity() int {
	return p.capacity
}

// InUse returns the number of units currently held
func (p *ResourcePool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Available returns the number of units not currently held
func (p *ResourcePool) Available() int {
	return p.capacity - p.InUse()
}
