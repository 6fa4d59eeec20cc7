package pipeline

import "fmt"

// StageError wraps a component failure with the pipeline stage it aborted.
// A partially-completed comparison would be misleading, so nothing is
// retried or recovered: the error travels to the invoker as-is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
