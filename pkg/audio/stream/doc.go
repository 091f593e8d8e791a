// ABOUTME: Stream lifecycle and real-time render thread protocol
// ABOUTME: Command bitset, period ring and the wait/render loop
// Package stream drives an open audio stream: it owns the dedicated
// render thread, the atomic command state shared with control code, and
// the period ring that bridges rendered samples to the native callback.
//
// The render callback runs on a locked, priority-elevated OS thread once
// per period. It must not block, allocate, or panic; a panic there takes
// the process down. Start, Stop and Close are non-blocking and
// idempotent; Close detaches the thread instead of joining it, so
// dropping a stream from a latency-sensitive caller never blocks.
// Failures inside the render loop stop the stream and are surfaced
// through CheckError on the control side.
package stream
