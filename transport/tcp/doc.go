// File: transport/tcp/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package tcp hosts the delay server used by the demos and the integration
// tests: GET /<ms>/<message> sleeps ms milliseconds, answers with message as
// the body and closes the connection.
package tcp
