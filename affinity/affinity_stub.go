//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

func setAffinityPlatform(int) error {
	return ErrUnsupported
}

// Current is unsupported off Linux.
func Current() ([]int, error) {
	return nil, ErrUnsupported
}

func pinPlatform(int) (func(), error) {
	return func() {}, ErrUnsupported
}
