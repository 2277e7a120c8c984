package step

import "fmt"

// Status classifies the outcome of a pipeline step.
type Status int

const (
	// StatusOK means the step completed all of its actions.
	StatusOK Status = iota
	// StatusSkipped means the step decided not to act (feature disabled,
	// tool absent, mutual exclusion).
	StatusSkipped
	// StatusTolerated means an action failed but the failure is swallowed
	// and the run continues.
	StatusTolerated
	// StatusFatal means the run must abort with a nonzero exit.
	StatusFatal
)

// String returns a short human-readable tag for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusTolerated:
		return "tolerated"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Result is the outcome of a single pipeline step. The orchestrator inspects
// the status tag to decide whether to continue or abort, instead of relying
// on implicit exit-code suppression.
type Result struct {
	// Status is the outcome classification.
	Status Status
	// Reason explains a skip in operator-readable terms.
	Reason string
	// Err carries the underlying failure for tolerated and fatal outcomes.
	Err error
}

// OK reports a fully completed step.
func OK() Result {
	return Result{Status: StatusOK}
}

// Skip reports a step that intentionally did nothing.
func Skip(reason string) Result {
	return Result{Status: StatusSkipped, Reason: reason}
}

// Tolerate reports a failure the run survives.
func Tolerate(err error) Result {
	return Result{Status: StatusTolerated, Err: err}
}

// Fail reports a failure that aborts the run.
func Fail(err error) Result {
	return Result{Status: StatusFatal, Err: err}
}

// Fatal reports whether the result must abort the pipeline.
func (r Result) Fatal() bool {
	return r.Status == StatusFatal
}
