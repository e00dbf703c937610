//go:build !linux
// +build !linux

// File: reactor/poller_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub poller for platforms without a readiness backend.

package reactor

import (
	"fmt"

	"github.com/momentics/hioload-rt/api"
)

// NewPoller returns an error on unsupported platforms. Supply a custom
// backend with WithPollerFactory.
func NewPoller(int, bool) (Poller, error) {
	return nil, fmt.Errorf("reactor: no poller for this platform: %w", api.ErrNotSupported)
}
