package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRunWithGolden_CleanArrival(t *testing.T) {
	scenario := &Scenario{
		Name:        "clean_arrival",
		Description: "Single healthy train passes inspection and auto-parks",
		Dice:        []float64{0.1},
		Steps: []Step{
			{Create: &CreateStep{Number: "T-101", Fitness: intPtr(82), Mileage: intPtr(120_000)}},
			{Advance: "30s"},
		},
		Assertions: []Assertion{
			{Type: AssertTrainStatus, Train: "T-101", Status: "parked"},
			{Type: AssertOccupant, Resource: "s9a", Train: "T-101"},
			{Type: AssertTraceOrder, Events: []string{
				"train:created", "train:moved", "inspection:result", "plan:preview", "train:moved",
			}},
		},
	}

	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden_CleanArrival -update
	err := RunWithGolden(t, scenario)
	require.NoError(t, err)
}

func TestRunWithGolden_WorkshopDetour(t *testing.T) {
	scenario := &Scenario{
		Name:        "workshop_detour",
		Description: "Failed inspection routes through the aligned workshop, then parks",
		Dice:        []float64{0.9},
		Steps: []Step{
			{Create: &CreateStep{
				Number:   "T-202",
				Fitness:  intPtr(70),
				Mileage:  intPtr(340_000),
				Failures: []string{"wheel-alignment"},
			}},
			{Advance: "80s"},
		},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Event: "inspection:result", Train: "T-202", Severity: "warning"},
			{Type: AssertTraceContains, Event: "workshop:updated", Train: "T-202", Severity: "success"},
			{Type: AssertTrainStatus, Train: "T-202", Status: "parked"},
			{Type: AssertOccupant, Resource: "ws1", Train: ""},
			{Type: AssertOccupant, Resource: "s9a", Train: "T-202"},
		},
	}

	err := RunWithGolden(t, scenario)
	require.NoError(t, err)
}

func TestRunWithGolden_BayContention(t *testing.T) {
	scenario := &Scenario{
		Name:        "bay_contention",
		Description: "Three arrivals contend for two bays; the third queues and is re-evaluated",
		Dice:        []float64{0.1, 0.1, 0.1},
		Steps: []Step{
			{Create: &CreateStep{Number: "T-301", Fitness: intPtr(90), Mileage: intPtr(50_000), Priority: true}},
			{Create: &CreateStep{Number: "T-302", Fitness: intPtr(85), Mileage: intPtr(60_000), DepartSoon: true}},
			{Create: &CreateStep{Number: "T-303", Fitness: intPtr(75), Mileage: intPtr(70_000)}},
			{Advance: "50s"},
			{Assign: &AssignStep{Train: "T-301", Target: "s12a", Type: "siding"}},
			{Assign: &AssignStep{Train: "T-302", Target: "s3a", Type: "siding"}},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Event: "train:queued", Count: 1},
			{Type: AssertTraceContains, Event: "train:queued", Train: "T-303", Severity: "warning"},
			{Type: AssertTrainStatus, Train: "T-301", Status: "parked"},
			{Type: AssertTrainStatus, Train: "T-302", Status: "parked"},
			{Type: AssertTrainStatus, Train: "T-303", Status: "parked"},
			{Type: AssertOccupant, Resource: "s9a", Train: "T-303"},
			{Type: AssertOccupant, Resource: "s12a", Train: "T-301"},
			{Type: AssertOccupant, Resource: "s3a", Train: "T-302"},
		},
	}

	err := RunWithGolden(t, scenario)
	require.NoError(t, err)
}
