// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable scratch memory for leaf I/O futures: a generic sync.Pool wrapper
// and a fixed-size byte slice pool built on it.
package pool
