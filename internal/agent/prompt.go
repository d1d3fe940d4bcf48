// internal/agent/prompt.go
package agent

import (
	"fmt"
	"strings"
)

// systemPrompt teaches the model the textual action grammar the parser
// understands. Coordinates are normalized to [0,1000] so the model never
// has to know the device resolution.
const systemPrompt = `You are an assistant operating an Android phone on the user's behalf.
Each turn you see a screenshot of the current screen and optionally an outline of
its interactive elements. Decide the single next step toward the user's goal.

Respond in exactly this format:
<think>brief reasoning about the screen and your next step</think>
<answer>ACTION</answer>

where ACTION is one of:
  do(action="Tap", element=[x,y])
  do(action="Swipe", start=[x1,y1], end=[x2,y2])
  do(action="Type", text="...")
  do(action="Launch", app="App Name")
  do(action="Wait", duration=2000)
  do(action="Home")
  do(action="Back")
  finish(message="what was accomplished")

Coordinates are integers from 0 to 1000, expressing a fraction of the screen
width and height. Emit exactly one action per turn. Use finish once the goal
is complete or cannot be completed.`

// userPrompt assembles the per-turn context.
func userPrompt(task string, history []string, outline string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GOAL: %s\n", task)
	if len(history) > 0 {
		sb.WriteString("\nPREVIOUS STEPS:\n")
		for _, h := range history {
			sb.WriteString("- ")
			sb.WriteString(h)
			sb.WriteByte('\n')
		}
	}
	if outline != "" {
		sb.WriteString("\nSCREEN ELEMENTS:\n")
		sb.WriteString(outline)
	}
	sb.WriteString("\nWhat is the next step?")
	return sb.String()
}
