// Package harness runs scripted yard scenarios deterministically.
//
// A scenario run wires the engine with a virtual clock frozen at a
// fixed epoch, sequential id generation, and scripted dice, so the
// same scenario always produces a byte-identical trace. That trace is
// validated by assertions and, in tests, compared against golden files.
package harness

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rwaldren/shuntyard/internal/engine"
	"github.com/rwaldren/shuntyard/internal/layout"
	"github.com/rwaldren/shuntyard/internal/testutil"
	"github.com/rwaldren/shuntyard/internal/yard"
)

// epoch is the fixed start time of every scenario run.
var epoch = time.Date(2025, time.January, 1, 6, 0, 0, 0, time.UTC)

// Run executes a scenario and returns its result. The returned error
// covers setup problems (bad layout, unknown train reference);
// assertion failures land in Result.Failures with Passed=false.
func Run(scenario *Scenario) (*Result, error) {
	topo, err := loadLayout(scenario)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithStart(epoch),
		engine.WithIDGenerator(engine.NewSequentialGenerator("id")),
	}
	if len(scenario.Dice) > 0 {
		opts = append(opts, engine.WithDice(testutil.NewScriptedDice(scenario.Dice...)))
	} else {
		opts = append(opts, engine.WithSeed(1))
	}
	if scenario.Speed > 0 {
		opts = append(opts, engine.WithSpeed(scenario.Speed))
	}

	eng, err := engine.New(topo, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	// Collect the trace as events are emitted. The handler runs under
	// the engine lock, so it only appends; the train number lookup
	// table is maintained from train:created payloads rather than
	// engine queries.
	var trace []TraceEvent
	numbers := make(map[string]string) // train id -> number
	eng.Subscribe(func(ev yard.Event) {
		if ev.Type == yard.EventTrainCreated {
			if n, ok := ev.Data["number"].(string); ok {
				numbers[ev.TrainID] = n
			}
		}
		trace = append(trace, TraceEvent{
			Seq:      ev.Seq,
			Type:     string(ev.Type),
			Train:    numbers[ev.TrainID],
			Severity: string(ev.Severity),
			Message:  ev.Message,
		})
	})

	if err := runSteps(eng, scenario); err != nil {
		return nil, err
	}

	result := &Result{
		Scenario: scenario.Name,
		Trace:    trace,
		Events:   eng.Events(),
		Final:    eng.Snapshot(),
	}

	for _, a := range scenario.Assertions {
		if err := evaluate(a, result); err != nil {
			result.Failures = append(result.Failures, err)
		}
	}
	result.Passed = len(result.Failures) == 0
	return result, nil
}

func loadLayout(scenario *Scenario) (*yard.Topology, error) {
	if scenario.Layout == "" {
		return layout.Default()
	}
	path := scenario.Layout
	if !filepath.IsAbs(path) && scenario.baseDir != "" {
		path = filepath.Join(scenario.baseDir, path)
	}
	return layout.LoadFile(path)
}

func runSteps(eng *engine.Engine, scenario *Scenario) error {
	for i, step := range scenario.Steps {
		switch {
		case step.Create != nil:
			eng.CreateTrain(engine.TrainAttrs{
				Number:     step.Create.Number,
				Fitness:    step.Create.Fitness,
				Mileage:    step.Create.Mileage,
				JobCard:    step.Create.JobCard,
				Failures:   step.Create.Failures,
				Priority:   step.Create.Priority,
				DepartSoon: step.Create.DepartSoon,
			})

		case step.Assign != nil:
			t := eng.TrainByNumber(step.Assign.Train)
			if t == nil {
				return fmt.Errorf("scenario %s step %d: unknown train %q", scenario.Name, i+1, step.Assign.Train)
			}
			if step.Assign.Type == "workshop" {
				eng.AssignToWorkshop(t.ID, step.Assign.Target)
			} else {
				eng.AssignToSiding(t.ID, step.Assign.Target)
			}

		case step.Speed != nil:
			eng.SetSpeed(*step.Speed)

		case step.Advance != "":
			d, err := time.ParseDuration(step.Advance)
			if err != nil {
				return fmt.Errorf("scenario %s step %d: %w", scenario.Name, i+1, err)
			}
			eng.AdvanceBy(d)
		}
	}
	return nil
}
