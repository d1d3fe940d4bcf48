// internal/agent/agent.go

// Package agent runs the interactive task loop: screenshot, model turn,
// parse, execute, repeat until the model finishes or the step budget runs
// out.
package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskwizard/taskwizard/internal/action"
	"github.com/taskwizard/taskwizard/internal/device"
	"github.com/taskwizard/taskwizard/internal/executor"
	"github.com/taskwizard/taskwizard/internal/modelclient"
	"github.com/taskwizard/taskwizard/internal/parser"
)

const (
	// historyWindow caps how many prior steps ride along in the prompt.
	historyWindow = 10
	// maxParseMisses bounds consecutive turns where no action could be
	// recovered before the run is abandoned.
	maxParseMisses = 3
)

// Agent drives one device through one task at a time.
type Agent struct {
	surface  *device.Router
	executor *executor.Executor
	model    modelclient.Client
	logger   *zap.Logger

	// IncludeUITree adds the parsed view-hierarchy outline to each prompt.
	IncludeUITree bool
}

// New assembles an agent over already-constructed components.
func New(surface *device.Router, exec *executor.Executor, model modelclient.Client, logger *zap.Logger) *Agent {
	return &Agent{
		surface:  surface,
		executor: exec,
		model:    model,
		logger:   logger.Named("agent"),
	}
}

// Run executes the task loop for up to maxSteps model turns. It returns nil
// when the model finishes the task, and an error when the step budget is
// exhausted, the model becomes unparseable, or the context is cancelled.
func (a *Agent) Run(ctx context.Context, task string, maxSteps int) error {
	runID := uuid.NewString()
	log := a.logger.With(zap.String("run_id", runID))
	log.Info("starting task", zap.String("task", task), zap.Int("max_steps", maxSteps))

	var history []string
	parseMisses := 0

	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		screenshot, err := a.captureScreen(ctx, log)
		if err != nil {
			return fmt.Errorf("screenshot failed: %w", err)
		}

		outline := ""
		if a.IncludeUITree {
			if tree, err := device.DumpUITree(ctx, a.surface.Bridge()); err == nil {
				outline = tree.Outline()
			} else {
				log.Warn("ui tree dump failed, continuing without outline", zap.Error(err))
			}
		}

		raw, err := a.model.Query(ctx, modelclient.Request{
			System:   systemPrompt,
			Prompt:   userPrompt(task, history, outline),
			ImagePNG: screenshot,
		})
		if err != nil {
			return fmt.Errorf("model query failed: %w", err)
		}

		parsed := parser.Parse(raw)
		if parsed.Reasoning != "" {
			log.Debug("model reasoning", zap.Int("step", step), zap.String("reasoning", parsed.Reasoning))
		}
		if parsed.Action == nil {
			// A parse miss is non-fatal; the next turn re-queries with the
			// same context. A run of them means the model has derailed.
			parseMisses++
			log.Warn("no action recovered from model output",
				zap.Int("step", step), zap.Int("consecutive_misses", parseMisses))
			if parseMisses >= maxParseMisses {
				return fmt.Errorf("model output unparseable for %d consecutive turns", parseMisses)
			}
			continue
		}
		parseMisses = 0

		act := *parsed.Action
		log.Info("executing step",
			zap.Int("step", step),
			zap.String("kind", act.Kind),
			zap.Ints("location", act.Location),
			zap.String("text", act.Text))

		res := a.executor.ExecuteOne(ctx, act)
		history = appendHistory(history, describeStep(step, act, res))

		if !res.ShouldContinue {
			log.Info("task finished", zap.String("message", act.Text), zap.Int("steps", step))
			return nil
		}
		if !res.Success {
			// The failure rides into the next prompt through the history so
			// the model can route around it.
			log.Warn("step failed, informing model", zap.String("error", res.ErrorMessage))
		}
	}

	return fmt.Errorf("task not finished after %d steps", maxSteps)
}

// captureScreen pulls a screenshot and reads it into memory for the model.
func (a *Agent) captureScreen(ctx context.Context, log *zap.Logger) ([]byte, error) {
	path, err := a.surface.Bridge().Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot %s: %w", path, err)
	}
	// The agent owns the pulled file; one screenshot per turn adds up fast.
	if err := os.Remove(path); err != nil {
		log.Debug("failed to remove screenshot", zap.String("path", path), zap.Error(err))
	}
	return data, nil
}

func describeStep(step int, act action.Action, res action.StepResult) string {
	status := "ok"
	if !res.Success {
		status = "FAILED: " + res.ErrorMessage
	}
	desc := fmt.Sprintf("step %d: %s", step, act.Kind)
	if len(act.Location) > 0 {
		desc += fmt.Sprintf(" %v", act.Location)
	}
	if act.Text != "" {
		desc += fmt.Sprintf(" %q", act.Text)
	}
	return desc + " -> " + status
}

func appendHistory(history []string, entry string) []string {
	history = append(history, entry)
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return history
}
