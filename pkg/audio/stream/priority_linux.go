//go:build linux

// ABOUTME: Render-thread priority elevation on Linux
// ABOUTME: Raises the locked thread's nice level via setpriority on its tid
package stream

import "golang.org/x/sys/unix"

func elevatePriority() error {
	// The caller has locked the goroutine to this thread, so the tid is
	// stable. Raising priority needs CAP_SYS_NICE; failure is non-fatal.
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), -20)
}
