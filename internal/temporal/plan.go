// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"fmt"

	"github.com/gammazero/toposort"
	"go.temporal.io/sdk/workflow"
)

// PhaseTask is a node in a phase execution graph. A task may not start
// until every task named in Deps has been applied.
type PhaseTask struct {
	Name string
	Deps []string
}

// TaskRunner binds plan tasks to activity executions. Start schedules the
// activity for a task and returns its future; Apply consumes the future and
// folds the result into workflow state. Execute calls Start for every task
// in a wave before applying any of them, so activities within a wave run in
// parallel.
type TaskRunner interface {
	Start(ctx workflow.Context, task string) workflow.Future
	Apply(ctx workflow.Context, task string, f workflow.Future) error
}

// PhasePlan is a validated phase graph grouped into sequential waves.
// Tasks in the same wave have no dependencies on each other and run
// concurrently; waves run in order.
type PhasePlan struct {
	tasks map[string]PhaseTask
	waves [][]string
}

// NewPhasePlan validates the task graph and computes its execution waves.
// Toposort is used for cycle detection only: its node order depends on map
// iteration, which is not stable across workflow replays. Wave membership
// is derived from dependency depth in declared task order, so the same plan
// always executes tasks in the same order.
func NewPhasePlan(tasks []PhaseTask) (*PhasePlan, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("phase plan has no tasks")
	}

	taskMap := make(map[string]PhaseTask, len(tasks))
	for _, t := range tasks {
		if _, dup := taskMap[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task %q in phase plan", t.Name)
		}
		taskMap[t.Name] = t
	}

	edges := make([]toposort.Edge, 0, len(tasks))
	for _, t := range tasks {
		for _, dep := range t.Deps {
			if _, ok := taskMap[dep]; !ok {
				return nil, fmt.Errorf("task %q depends on unknown task %q", t.Name, dep)
			}
			edges = append(edges, toposort.Edge{dep, t.Name})
		}
	}

	if _, err := toposort.Toposort(edges); err != nil {
		return nil, fmt.Errorf("cycle detected in phase plan: %w", err)
	}

	placed := make(map[string]bool, len(tasks))
	waves := make([][]string, 0, 2)
	for len(placed) < len(tasks) {
		wave := make([]string, 0, len(tasks)-len(placed))
		for _, t := range tasks {
			if placed[t.Name] {
				continue
			}
			ready := true
			for _, dep := range t.Deps {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, t.Name)
			}
		}
		if len(wave) == 0 {
			return nil, fmt.Errorf("phase plan stalled - no tasks runnable")
		}
		for _, name := range wave {
			placed[name] = true
		}
		waves = append(waves, wave)
	}

	return &PhasePlan{tasks: taskMap, waves: waves}, nil
}

// NewFanOutPlan builds the coordinator-then-agents graph every pipeline
// phase uses: one coordinator task followed by a single wave of agent tasks
// that all depend on it.
func NewFanOutPlan(coordinator string, agents []string) (*PhasePlan, error) {
	tasks := make([]PhaseTask, 0, len(agents)+1)
	tasks = append(tasks, PhaseTask{Name: coordinator})
	for _, agent := range agents {
		tasks = append(tasks, PhaseTask{Name: agent, Deps: []string{coordinator}})
	}
	return NewPhasePlan(tasks)
}

// Waves returns the execution waves in order. The slices are copies.
func (p *PhasePlan) Waves() [][]string {
	out := make([][]string, len(p.waves))
	for i, wave := range p.waves {
		out[i] = append([]string(nil), wave...)
	}
	return out
}

// Execute runs the plan against a runner: each wave starts all of its
// activities before any result is applied, and results are applied in
// declared task order so state mutation stays deterministic.
func (p *PhasePlan) Execute(ctx workflow.Context, r TaskRunner) error {
	logger := workflow.GetLogger(ctx)

	for _, wave := range p.waves {
		futures := make([]workflow.Future, len(wave))
		for i, name := range wave {
			logger.Debug("Starting phase task", "task", name)
			f := r.Start(ctx, name)
			if f == nil {
				return fmt.Errorf("no activity mapped for task %q", name)
			}
			futures[i] = f
		}
		for i, name := range wave {
			if err := r.Apply(ctx, name, futures[i]); err != nil {
				return fmt.Errorf("task %s failed: %w", name, err)
			}
			logger.Debug("Phase task applied", "task", name)
		}
	}
	return nil
}
