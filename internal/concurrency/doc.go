// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scheduling primitives for the executor: the shared ready queue of task ids
// (LIFO stack by default, FIFO deque on request) and the thread parker.
package concurrency
