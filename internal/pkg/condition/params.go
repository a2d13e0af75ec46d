package condition

import (
	"strconv"
	"sync/atomic"
)

// DefaultParamPrefix prefixes parameter names from the process-wide allocator.
const DefaultParamPrefix = "p"

// Allocator hands out parameter names of the form <prefix><n>.
// Names are never reused for the lifetime of the allocator.
// Criteria built from different allocators must use different prefixes
// before they are merged.
type Allocator struct {
	prefix string
	next   atomic.Uint64
}

// NewAllocator creates an allocator for the given prefix.
func NewAllocator(prefix string) *Allocator {
	if prefix == "" {
		prefix = DefaultParamPrefix
	}
	return &Allocator{prefix: prefix}
}

// Next returns the next unused parameter name. Safe for concurrent use.
func (a *Allocator) Next() string {
	n := a.next.Add(1) - 1
	return a.prefix + strconv.FormatUint(n, 10)
}

// Prefix returns the allocator's prefix.
func (a *Allocator) Prefix() string {
	return a.prefix
}

var defaultAllocator = NewAllocator(DefaultParamPrefix)

// DefaultAllocator returns the process-wide allocator.
func DefaultAllocator() *Allocator {
	return defaultAllocator
}

// NextParameterName returns a name from the process-wide allocator.
func NextParameterName() string {
	return defaultAllocator.Next()
}
