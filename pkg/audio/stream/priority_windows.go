//go:build windows

// ABOUTME: Render-thread priority elevation on Windows
// ABOUTME: Sets THREAD_PRIORITY_TIME_CRITICAL on the locked thread
package stream

import "golang.org/x/sys/windows"

const threadPriorityTimeCritical = 15

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
)

func elevatePriority() error {
	r, _, err := procSetThreadPriority.Call(
		uintptr(windows.CurrentThread()),
		threadPriorityTimeCritical,
	)
	if r == 0 {
		return err
	}
	return nil
}
