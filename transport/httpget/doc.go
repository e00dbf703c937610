// File: transport/httpget/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package httpget is the reference readiness-driven leaf future: a minimal
// HTTP GET that connects, writes a fixed request template, then collects the
// raw response bytes through reactor read-readiness until the peer closes.
//
// There is no HTTP parsing; the resolved value is the whole response text.
package httpget
