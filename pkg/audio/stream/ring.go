// ABOUTME: Single-producer single-consumer period ring
// ABOUTME: Render thread writes whole periods, native callback reads bytes
package stream

import (
	"fmt"
	"sync/atomic"
)

// Ring is a lock-free byte ring between the render thread (producer,
// whole periods at a time) and the native device callback (consumer,
// arbitrary byte counts). The capacity is a whole number of periods and
// the producer writes period-aligned, so an acquired write region is
// always contiguous. The consumer never blocks: on underrun it
// zero-fills and counts.
type Ring struct {
	buf         []byte
	periodBytes int

	head atomic.Uint64 // bytes consumed
	tail atomic.Uint64 // bytes committed

	space     chan struct{}
	underruns atomic.Uint64
}

// NewRing creates a ring holding periods buffers of periodBytes each.
// At least two periods are kept so the producer can stay one ahead.
func NewRing(periodBytes, periods int) *Ring {
	if periodBytes <= 0 {
		panic(fmt.Sprintf("stream: invalid period size %d", periodBytes))
	}
	if periods < 2 {
		periods = 2
	}
	return &Ring{
		buf:         make([]byte, periodBytes*periods),
		periodBytes: periodBytes,
		space:       make(chan struct{}, 1),
	}
}

// AcquirePeriod returns the next writable period region, or false when
// the ring is full. Producer side only.
func (r *Ring) AcquirePeriod() ([]byte, bool) {
	used := r.tail.Load() - r.head.Load()
	if int(used)+r.periodBytes > len(r.buf) {
		return nil, false
	}
	off := int(r.tail.Load() % uint64(len(r.buf)))
	return r.buf[off : off+r.periodBytes], true
}

// CommitPeriod publishes the region returned by the last AcquirePeriod.
// Producer side only.
func (r *Ring) CommitPeriod() {
	r.tail.Add(uint64(r.periodBytes))
}

// Read copies up to len(dst) committed bytes into dst and zero-fills the
// remainder, counting an underrun when it comes up short. It never
// blocks or allocates. Consumer side only.
func (r *Ring) Read(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	head := r.head.Load()
	avail := int(r.tail.Load() - head)
	n := len(dst)
	if n > avail {
		n = avail
	}

	off := int(head % uint64(len(r.buf)))
	first := len(r.buf) - off
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[off:off+first])
	copy(dst[first:n], r.buf[:n-first])

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	if n < len(dst) {
		r.underruns.Add(1)
	}
	if n > 0 {
		r.head.Add(uint64(n))
		select {
		case r.space <- struct{}{}:
		default:
		}
	}
	return n
}

// Space is signaled after the consumer frees room in the ring.
func (r *Ring) Space() <-chan struct{} { return r.space }

// Buffered returns the number of committed, unconsumed bytes.
func (r *Ring) Buffered() int {
	return int(r.tail.Load() - r.head.Load())
}

// Underruns returns how many reads came up short of the requested size.
func (r *Ring) Underruns() uint64 { return r.underruns.Load() }
