// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for hioload-rt.
//
// Executors and reactors publish counters into a MetricsRegistry; the facade
// exposes live state (pending tasks, registrations) through DebugProbes.
package control
