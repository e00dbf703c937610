// File: fake/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package fake contains test doubles for the runtime: scripted futures,
// a recording waker, a channel-driven Poller and a delay-server helper.
package fake
