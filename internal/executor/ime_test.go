// File: internal/executor/ime_test.go
package executor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwizard/taskwizard/internal/action"
)

const (
	adbIME      = "com.android.adbkeyboard/.AdbIME"
	samsungIME  = "com.samsung.android.honeyboard/.service.HoneyBoardService"
	typeCmdPart = "am broadcast -a ADB_INPUT_B64"
)

func TestIME_SwitchedAndRestoredAroundTyping(t *testing.T) {
	bridge := newExecBridge()
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "hello"},
		action.Action{Kind: "finish"},
	), nil)

	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	require.Len(t, bridge.setIMECalls, 2)
	assert.Equal(t, adbIME, bridge.setIMECalls[0])
	assert.Equal(t, samsungIME, bridge.setIMECalls[1])
	assert.Equal(t, samsungIME, bridge.currentIME, "original keyboard active after the run")
}

func TestIME_RestoredEvenWhenLaterStepFails(t *testing.T) {
	bridge := newExecBridge()
	bridge.failShellContaining = "input tap"
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "hello"},
		action.Action{Kind: "tap", Location: []int{500, 500}},
	), nil)

	require.Equal(t, action.OutcomeFailure, res.Outcome)
	assert.Equal(t, 1, res.StepIndex)
	require.Len(t, bridge.setIMECalls, 2, "failure path still restores")
	assert.Equal(t, samsungIME, bridge.setIMECalls[1])
}

func TestIME_SwitchedOnceAcrossMultipleTypeSteps(t *testing.T) {
	bridge := newExecBridge()
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "user@example.com"},
		action.Action{Kind: "type", Text: "hunter2"},
	), nil)

	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	// One switch at the first type step, one restore at teardown.
	require.Len(t, bridge.setIMECalls, 2)

	var broadcasts int
	for _, cmd := range bridge.shellCmds {
		if strings.HasPrefix(cmd, typeCmdPart) {
			broadcasts++
		}
	}
	assert.Equal(t, 2, broadcasts)
}

func TestIME_AlreadyCompatibleReassertsSameIdentifier(t *testing.T) {
	bridge := newExecBridge()
	bridge.currentIME = adbIME
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "hello"},
	), nil)

	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	require.Len(t, bridge.setIMECalls, 1)
	assert.Equal(t, adbIME, bridge.setIMECalls[0])
	assert.Equal(t, adbIME, bridge.currentIME)
}

func TestIME_NoCompatibleEnabledTypesDegraded(t *testing.T) {
	bridge := newExecBridge()
	bridge.enabledIMEs = nil
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "hello"},
	), nil)

	// Typing still goes out over the broadcast; it just may not land.
	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	assert.Empty(t, bridge.setIMECalls)
	require.Len(t, bridge.shellCmds, 1)
	assert.Contains(t, bridge.shellCmds[0], typeCmdPart)
}

func TestIME_UnconfirmedSwitchIsNotRestored(t *testing.T) {
	bridge := newExecBridge()
	bridge.confirmSet = false // SetIME reports success but read-back disagrees.
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "type", Text: "hello"},
	), nil)

	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	// The switch attempt happened, but with no confirmation there must be no
	// restore call at teardown.
	require.Len(t, bridge.setIMECalls, 1)
	assert.Equal(t, adbIME, bridge.setIMECalls[0])
}

func TestIME_NoBracketingWithoutTypeSteps(t *testing.T) {
	bridge := newExecBridge()
	e := newTestExecutor(t, bridge, 1080, 2400)

	res := e.Execute(context.Background(), script(
		action.Action{Kind: "home"},
		action.Action{Kind: "tap", Location: []int{500, 500}},
	), nil)

	require.Equal(t, action.OutcomeSuccess, res.Outcome)
	assert.Empty(t, bridge.setIMECalls)
	assert.Zero(t, bridge.imeReads)
}
