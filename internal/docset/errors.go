package docset

import "fmt"

// PreconditionError reports a missing or unusable input detected before
// the run mutates anything.
type PreconditionError struct {
	Msg string
	Err error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// DumpError wraps a failed run of the dump helper.
type DumpError struct {
	ExitCode int
	Err      error
}

func (e *DumpError) Error() string {
	return fmt.Sprintf("dump helper failed (exit code %d): %v", e.ExitCode, e.Err)
}

func (e *DumpError) Unwrap() error { return e.Err }
