package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DeterministicTrace(t *testing.T) {
	scenario := &Scenario{
		Name: "determinism",
		Dice: []float64{0.1},
		Steps: []Step{
			{Create: &CreateStep{Number: "T-1", Fitness: intPtr(80), Mileage: intPtr(100_000)}},
			{Advance: "30s"},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.True(t, first.Passed)
}

func TestRun_SeqContiguous(t *testing.T) {
	scenario := &Scenario{
		Name: "seq_contiguous",
		Dice: []float64{0.1},
		Steps: []Step{
			{Create: &CreateStep{Number: "T-1", Fitness: intPtr(80), Mileage: intPtr(100_000)}},
			{Advance: "30s"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotEmpty(t, result.Trace)
	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq, "trace must have gap-free sequence numbers")
	}
}

func TestRun_AssertionFailureReported(t *testing.T) {
	scenario := &Scenario{
		Name: "failing_assertion",
		Dice: []float64{0.1},
		Steps: []Step{
			{Create: &CreateStep{Number: "T-1", Fitness: intPtr(80), Mileage: intPtr(100_000)}},
			{Advance: "30s"},
		},
		Assertions: []Assertion{
			{Type: AssertTrainStatus, Train: "T-1", Status: "departed"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error(), "train_status")
}

func TestRun_UnknownAssignTarget(t *testing.T) {
	scenario := &Scenario{
		Name: "unknown_train",
		Steps: []Step{
			{Assign: &AssignStep{Train: "T-404", Target: "s3a", Type: "siding"}},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown train")
}

func TestRun_SpeedStepEmitsEvent(t *testing.T) {
	scenario := &Scenario{
		Name: "speed_change",
		Steps: []Step{
			{Speed: float64Ptr(2.0)},
		},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Event: "sim:speed"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed, "failures: %v", result.Failures)
	assert.Equal(t, 2.0, result.Final.Speed)
}

func TestLoadScenario_YAML(t *testing.T) {
	path := filepath.Join("testdata", "scenarios", "priority_arrival.yaml")
	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "priority_arrival", scenario.Name)
	require.Len(t, scenario.Steps, 3)
	require.NotNil(t, scenario.Steps[0].Create)
	assert.True(t, scenario.Steps[0].Create.Priority)
	require.NotNil(t, scenario.Steps[2].Assign)
	assert.Equal(t, "s3a", scenario.Steps[2].Assign.Target)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed, "failures: %v", result.Failures)
}

func TestLoadScenario_InvalidStep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, `
name: bad
steps:
  - advance: not-a-duration
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid advance duration")
}

func TestValidate_RejectsAmbiguousStep(t *testing.T) {
	s := &Scenario{
		Name: "ambiguous",
		Steps: []Step{
			{Create: &CreateStep{Number: "T-1"}, Advance: "5s"},
		},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func float64Ptr(f float64) *float64 { return &f }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
