package pull

import "fmt"

// ExitInterrupted is the process exit status for a signal-interrupted pull,
// distinct from success and from any puller failure magnitude (EINTR).
const ExitInterrupted = 4

// Outcome is the terminal result of one driven pull operation: either the
// puller's outcome code (0 on success) or the interrupted marker. There is
// no partial success.
type Outcome struct {
	Code        int
	Interrupted bool
}

// OK reports a clean, uninterrupted success.
func (o Outcome) OK() bool {
	return !o.Interrupted && o.Code == 0
}

// ExitCode maps the outcome to a process exit status.
func (o Outcome) ExitCode() int {
	if o.Interrupted {
		return ExitInterrupted
	}
	return o.Code
}

// Err converts a non-success outcome into an error carrying the exit
// status; it returns nil on clean success.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &ExitError{Code: o.ExitCode(), Interrupted: o.Interrupted}
}

// ExitError reports a failed or interrupted pull together with the exit
// status the process should terminate with.
type ExitError struct {
	Code        int
	Interrupted bool
}

func (e *ExitError) Error() string {
	if e.Interrupted {
		return "transfer interrupted"
	}
	return fmt.Sprintf("pull operation failed with code %d", e.Code)
}
