// internal/dashboard/errors.go
package dashboard

import "fmt"

// UpstreamError is a hard failure in a non-degradable position, such as
// the sessions listing returning no data.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// InternalError is any unexpected failure inside a flow. The presentation
// layer shows it distinctly from connectivity failures.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("an unexpected error occurred: %v", e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
