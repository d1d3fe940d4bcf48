// internal/action/result.go
package action

import (
	"fmt"
	"time"
)

// Outcome discriminates the terminal states of one execution call.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// ExecutionResult is produced exactly once per execution call. Cancellation
// is a distinct terminal outcome, not a failure; callers render these
// directly without re-deriving what happened.
type ExecutionResult struct {
	Outcome   Outcome
	StepCount int           // Steps completed; meaningful for Success.
	Duration  time.Duration // Wall time of the whole call; meaningful for Success.
	StepIndex int           // Zero-based index of the failing step; meaningful for Failure.
	Message   string        // Human-readable failure description; meaningful for Failure.
}

// Succeeded reports whether the call ran the script to completion.
func (r ExecutionResult) Succeeded() bool { return r.Outcome == OutcomeSuccess }

// String renders the result for logs and CLI output.
func (r ExecutionResult) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("success: %d steps in %s", r.StepCount, r.Duration.Round(time.Millisecond))
	case OutcomeFailure:
		return fmt.Sprintf("failed at step %d: %s", r.StepIndex+1, r.Message)
	case OutcomeCancelled:
		return "cancelled"
	default:
		return string(r.Outcome)
	}
}

// StepResult is the outcome of executing a single action interactively.
// ShouldContinue is false once a finish action is reached.
type StepResult struct {
	Success        bool
	ShouldContinue bool
	ErrorMessage   string
}
