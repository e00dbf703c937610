// File: future/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package future provides combinators over api.Future.
//
// Every combinator forwards the waker it is polled with to the children it
// polls, so a composite is rescheduled whenever any pending child is woken.
// Children that already finished are never polled again. Polling a
// combinator after it returned Ready panics with api.ErrPolledAfterReady.
package future
