package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Scenario is a scripted yard run: a layout, a deterministic dice
// script, a sequence of steps (commands and time advances), and
// assertions over the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Layout is a path to a .cue layout file, relative to the scenario
	// file. Empty means the embedded standard layout.
	Layout string `yaml:"layout,omitempty"`

	// Speed is the initial simulation speed multiplier (default 1.0).
	Speed float64 `yaml:"speed,omitempty"`

	// Dice scripts the inspection pass/fail rolls in order. A value
	// below the pass probability forces a pass. Empty means seed 1.
	Dice []float64 `yaml:"dice,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`

	// baseDir anchors relative Layout paths; set by LoadScenario.
	baseDir string
}

// Step is one scripted action. Exactly one field should be set.
type Step struct {
	Create  *CreateStep `yaml:"create,omitempty"`
	Assign  *AssignStep `yaml:"assign,omitempty"`
	Speed   *float64    `yaml:"speed,omitempty"`
	Advance string      `yaml:"advance,omitempty"` // duration, e.g. "30s"
}

// CreateStep creates a train, mirroring the create_train command.
type CreateStep struct {
	Number     string      `yaml:"number,omitempty"`
	Fitness    *int        `yaml:"fitness,omitempty"`
	Mileage    *int        `yaml:"mileage,omitempty"`
	JobCard    []yard.Task `yaml:"job_card,omitempty"`
	Failures   []string    `yaml:"failures,omitempty"`
	Priority   bool        `yaml:"priority,omitempty"`
	DepartSoon bool        `yaml:"depart_soon,omitempty"`
}

// AssignStep explicitly assigns a train (referenced by number) to a
// siding slot or workshop line.
type AssignStep struct {
	Train  string `yaml:"train"`
	Target string `yaml:"target"`
	Type   string `yaml:"type"` // "siding" | "workshop"
}

// Assertion validates the trace or the final aggregate state.
type Assertion struct {
	// Type is one of:
	//   - "trace_contains": an event of Event type (optionally for
	//     Train, with Severity) appears in the trace
	//   - "trace_order": events of the listed types appear in order
	//   - "trace_count": events of Event type appear exactly Count times
	//   - "train_status": the train's final status equals Status
	//   - "occupant": resource Resource is finally occupied by Train
	//     (empty Train asserts the resource is free)
	Type string `yaml:"type"`

	Event    string   `yaml:"event,omitempty"`
	Events   []string `yaml:"events,omitempty"`
	Train    string   `yaml:"train,omitempty"`
	Severity string   `yaml:"severity,omitempty"`
	Count    int      `yaml:"count,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Resource string   `yaml:"resource,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertTrainStatus   = "train_status"
	AssertOccupant      = "occupant"
)

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	s.baseDir = filepath.Dir(path)
	return &s, nil
}

// Validate checks structural requirements before a run.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range s.Steps {
		set := 0
		if step.Create != nil {
			set++
		}
		if step.Assign != nil {
			set++
			if step.Assign.Type != "siding" && step.Assign.Type != "workshop" {
				return fmt.Errorf("step %d: assign type must be siding or workshop", i+1)
			}
		}
		if step.Speed != nil {
			set++
		}
		if step.Advance != "" {
			set++
			if _, err := time.ParseDuration(step.Advance); err != nil {
				return fmt.Errorf("step %d: invalid advance duration %q", i+1, step.Advance)
			}
		}
		if set != 1 {
			return fmt.Errorf("step %d: exactly one of create/assign/speed/advance must be set", i+1)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertTraceContains, AssertTraceOrder, AssertTraceCount, AssertTrainStatus, AssertOccupant:
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}
	return nil
}
