// ABOUTME: Planar sample buffer package
// ABOUTME: Owned arena-backed storage plus non-owning Ref/Mut views
// Package buffer provides planar (per-channel contiguous) sample storage.
//
// Buffer owns its samples in a single arena allocation of
// channels x capacity, so every channel has the same capacity by
// construction. Ref and Mut are non-owning views used to hand sample
// memory across the real-time boundary without allocation or copying;
// a view must not outlive the memory it was built over (for views over
// device-owned period memory that lifetime is one callback invocation).
package buffer
