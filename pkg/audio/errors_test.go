// ABOUTME: Error taxonomy tests
// ABOUTME: Verifies wrapping and errors.Is/As behavior
package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestBackendErrorUnwrap(t *testing.T) {
	be := &BackendError{Backend: "malgo", Op: "init device", Err: ErrDeviceInUse}

	if !errors.Is(be, ErrDeviceInUse) {
		t.Error("BackendError does not unwrap to its cause")
	}

	wrapped := fmt.Errorf("open stream: %w", be)
	var target *BackendError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed to find BackendError")
	}
	if target.Backend != "malgo" || target.Op != "init device" {
		t.Errorf("BackendError fields lost: %+v", target)
	}
}

func TestBackendErrorMessage(t *testing.T) {
	be := &BackendError{Backend: "oto", Op: "new context", Err: errors.New("boom")}
	want := "oto: new context: boom"
	if got := be.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
