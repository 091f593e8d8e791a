// ABOUTME: Error taxonomy for device and stream failures
// ABOUTME: Sentinel errors plus BackendError wrapping native API failures
package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration means the requested stream configuration
	// cannot be satisfied by the device in the requested mode.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrDeviceNotAvailable means the device disappeared or was never
	// present. Callers may retry enumeration or fall back to another device.
	ErrDeviceNotAvailable = errors.New("device not available")

	// ErrDeviceInUse means another client holds the device exclusively.
	// Callers may retry later or prompt the user.
	ErrDeviceInUse = errors.New("device in use")
)

// BackendError is an opaque native-API failure. It carries the backend
// name and the operation that failed; the wrapped error is whatever the
// native binding reported.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
