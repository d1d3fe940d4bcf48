// File: internal/action/result_test.go
package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutionResult_String(t *testing.T) {
	success := ExecutionResult{Outcome: OutcomeSuccess, StepCount: 4, Duration: 6200 * time.Millisecond}
	assert.Equal(t, "success: 4 steps in 6.2s", success.String())
	assert.True(t, success.Succeeded())

	failure := ExecutionResult{Outcome: OutcomeFailure, StepIndex: 2, Message: "tap at (540,1200) failed"}
	assert.Equal(t, "failed at step 3: tap at (540,1200) failed", failure.String())
	assert.False(t, failure.Succeeded())

	cancelled := ExecutionResult{Outcome: OutcomeCancelled}
	assert.Equal(t, "cancelled", cancelled.String())
	assert.False(t, cancelled.Succeeded())
}
