// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files guarded by build tags.

package affinity

import "errors"

// ErrUnsupported is returned where thread pinning is unavailable.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// SetAffinity pins the calling OS thread to a logical CPU. The caller must
// hold runtime.LockOSThread for the pin to stick to a goroutine.
// A negative cpuID is a no-op.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return nil
	}
	return setAffinityPlatform(cpuID)
}

// Pin is SetAffinity that also returns a func restoring the previous mask.
// The restore func is never nil.
func Pin(cpuID int) (restore func(), err error) {
	if cpuID < 0 {
		return func() {}, nil
	}
	return pinPlatform(cpuID)
}
