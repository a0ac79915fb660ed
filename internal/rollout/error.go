package rollout

import (
	"errors"
	"fmt"

	"github.com/imamik/argoboot/internal/argocd"
)

// Error is a terminal rollout failure. It carries the stage at which
// the run stopped, the exit code for the failure class, and any Argo CD
// conditions reported at the point of failure.
type Error struct {
	Stage      Stage
	Code       int
	Conditions []argocd.Condition
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rollout failed at %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds a *Error, lifting conditions out of a wrapped
// argocd.TerminalError when present.
func newError(stage Stage, code int, err error) *Error {
	rerr := &Error{Stage: stage, Code: code, Err: err}

	var terminal *argocd.TerminalError
	if errors.As(err, &terminal) {
		rerr.Conditions = terminal.Conditions
	}
	return rerr
}

// ExitCode maps an error to the process exit code: 0 for nil, the
// taxonomy code for *Error, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return 1
}
