//go:build !linux && !windows

// ABOUTME: Render-thread priority elevation fallback
// ABOUTME: No-op on platforms without a wired priority call
package stream

func elevatePriority() error { return nil }
