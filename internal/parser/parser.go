// internal/parser/parser.go

// Package parser recovers structured Actions from loosely formatted model
// output. The grammar is deliberately tolerant: models wrap their answers in
// inconsistent tag soup, drop quotes, and reorder arguments, so every
// extraction here degrades to absence instead of failing. Parse never
// returns an error and never panics, whatever the input.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taskwizard/taskwizard/internal/action"
)

// implicitReasoningMinLen is the tunable noise threshold for implicit
// reasoning: text preceding <answer> shorter than this after trimming is
// filler ("OK", "Sure") rather than a chain of thought, and is discarded.
const implicitReasoningMinLen = 5

var (
	thinkRegex  = regexp.MustCompile(`(?s)<think>(.*?)</think>`)
	answerRegex = regexp.MustCompile(`(?s)<answer>(.*?)</answer>`)

	// Call spans use shortest-run matching up to the first close paren. This
	// is not balanced-parenthesis parsing: the common case is a single call
	// with quoted string or bracketed array arguments, and a stray ")" inside
	// a quoted value truncates the span. That trade keeps the scanner total
	// over arbitrary garbage.
	doRegex     = regexp.MustCompile(`(?s)do\(([^)]*)\)`)
	finishRegex = regexp.MustCompile(`(?s)finish\(([^)]*)\)`)

	// Per-key extraction patterns, compiled once. String values accept either
	// quote style with shortest-run matching; coordinates are 2-int brackets.
	stringKeys = compileKeys(`\s*=\s*(?:"(.*?)"|'(.*?)')`, "action", "message", "text", "app", "instruction")
	coordKeys  = compileKeys(`\s*=\s*\[\s*(-?\d+)\s*,\s*(-?\d+)\s*\]`, "start", "end", "element")
	intKeys    = compileKeys(`\s*=\s*(-?\d+)`, "duration")
)

func compileKeys(suffix string, keys ...string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(keys))
	for _, k := range keys {
		out[k] = regexp.MustCompile(`\b` + k + suffix)
	}
	return out
}

// Result pairs the reasoning recovered from one model turn with the Action
// derived from the same input. Either may be absent; they are never
// inconsistent with each other.
type Result struct {
	Reasoning string         // Trimmed chain of thought; empty when absent.
	Action    *action.Action // Nil when no action could be recovered.
}

// Parse extracts reasoning and an Action from raw model output.
func Parse(text string) Result {
	var res Result

	if m := thinkRegex.FindStringSubmatch(text); m != nil {
		res.Reasoning = strings.TrimSpace(m[1])
	} else if idx := strings.Index(text, "<answer>"); idx >= 0 {
		// No <think> span: treat whatever precedes the answer as implicit
		// reasoning, unless it is too short to mean anything.
		implicit := strings.TrimSpace(text[:idx])
		if len(implicit) > implicitReasoningMinLen {
			res.Reasoning = implicit
		}
	}

	payload := extractPayload(text)
	if payload == "" {
		return res
	}
	res.Action = parsePayload(payload)
	return res
}

// extractPayload isolates the call-like span holding the action: the
// <answer> body when present, otherwise the first do(...) and finally the
// first finish(...) anywhere in the raw text.
func extractPayload(text string) string {
	if m := answerRegex.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := doRegex.FindString(text); m != "" {
		return m
	}
	if m := finishRegex.FindString(text); m != "" {
		return m
	}
	return ""
}

// parsePayload turns one call-like span into an Action, or nil if the span
// does not carry one.
func parsePayload(payload string) *action.Action {
	payload = strings.TrimSpace(payload)

	switch {
	case strings.HasPrefix(payload, "finish"):
		a := &action.Action{Kind: string(action.KindFinish)}
		if msg, ok := stringKey(payload, "message"); ok {
			a.Text = msg
		}
		return a

	case strings.HasPrefix(payload, "do"):
		kind, ok := stringKey(payload, "action")
		if !ok || kind == "" {
			// A do() with no usable action name is absence, not error.
			return nil
		}
		a := &action.Action{Kind: kind}

		// start+end segments take precedence over any element point.
		if sx, sy, ok := coordKey(payload, "start"); ok {
			if ex, ey, ok2 := coordKey(payload, "end"); ok2 {
				a.Location = []int{sx, sy, ex, ey}
			}
		}
		if a.Location == nil {
			if x, y, ok := coordKey(payload, "element"); ok {
				a.Location = []int{x, y}
			}
		}

		// First present of text, message, app wins.
		for _, key := range []string{"text", "message", "app"} {
			if v, ok := stringKey(payload, key); ok {
				a.Text = v
				break
			}
		}

		if d, ok := intKey(payload, "duration"); ok && d >= 0 {
			a.DurationMS = d
		}
		if v, ok := stringKey(payload, "instruction"); ok {
			a.Instruction = v
		}
		return a
	}

	return nil
}

// stringKey extracts key="value" or key='value' from the payload. The two
// capture groups cover the two quote styles; whichever side of the
// alternation matched carries the value, so the group whose quotes enclosed
// the match is identified by re-checking the full match text.
func stringKey(payload, key string) (string, bool) {
	m := stringKeys[key].FindStringSubmatch(payload)
	if m == nil {
		return "", false
	}
	// The full match ends with the closing quote; its opening counterpart
	// tells us which alternative fired, even for empty values.
	if strings.HasSuffix(m[0], `"`) {
		return m[1], true
	}
	return m[2], true
}

// coordKey extracts key=[x,y] from the payload.
func coordKey(payload, key string) (int, int, bool) {
	m := coordKeys[key].FindStringSubmatch(payload)
	if m == nil {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

// intKey extracts a bare integer value for key.
func intKey(payload, key string) (int, bool) {
	m := intKeys[key].FindStringSubmatch(payload)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
