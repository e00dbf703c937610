// File: internal/transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package transport provides the raw-descriptor TCP connection used by
// readiness-driven leaf futures: a blocking connect and request write,
// followed by non-blocking reads that report would-block instead of waiting.
package transport
