package visitpipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the raw transcript is empty or
// whitespace-only. The gateway is never invoked in that case.
var ErrEmptyInput = errors.New("transcript is empty")

// EmptyCompletionError reports that the gateway returned no usable content
// for a stage. It is distinct from a malformed completion, which is
// recovered locally and never surfaces as an error.
type EmptyCompletionError struct {
	Step string
}

func (e *EmptyCompletionError) Error() string {
	return fmt.Sprintf("%s: model returned an empty completion", e.Step)
}

// PipelineError is the single error type surfaced by Analyze. Step is one of
// clean, structure, or analyze.
type PipelineError struct {
	Step string
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// StepFromError extracts the failing stage name from an Analyze error.
func StepFromError(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Step
	}
	var ec *EmptyCompletionError
	if errors.As(err, &ec) {
		return ec.Step
	}
	return "pipeline"
}
