// File: executor/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"fmt"
)

// TaskPanicError reports a fatal fault raised while polling a task: failed
// connects, unexpected I/O errors, polls after completion, and so on.
type TaskPanicError struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("task %d panicked: %v", e.TaskID, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
