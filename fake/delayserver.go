// File: fake/delayserver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"testing"

	"github.com/momentics/hioload-rt/transport/tcp"
)

// StartDelayServer runs a delay server on a free loopback port for the
// lifetime of t and returns its address.
func StartDelayServer(t testing.TB) string {
	t.Helper()
	s, err := tcp.Start(tcp.ListenerConfig{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("delay server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.Addr()
}
